package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/wildfunctions/genetix/pkg/expr"
)

// ResultReport is one ranked expression in a FinalReport.
type ResultReport struct {
	Rank       int      `json:"rank"`
	Expr       string   `json:"expr"`
	Fitness    *float64 `json:"fitness"`
	Length     int      `json:"length"`
	Derivative string   `json:"derivative,omitempty"`
}

// FinalReport summarizes a terminated run.
type FinalReport struct {
	RunID       string         `json:"run_id"`
	Config      Config         `json:"config"`
	Seed        uint64         `json:"seed"`
	State       string         `json:"state"`
	Error       string         `json:"error,omitempty"`
	Generations int            `json:"generations"`
	Created     int64          `json:"created"`
	BestFitness *float64       `json:"best_fitness"`
	MeanFitness *float64       `json:"mean_fitness"`
	Elapsed     time.Duration  `json:"elapsed_ns"`
	Results     []ResultReport `json:"results"`
}

// Report builds the final report with the k best expressions. With
// derivative set, each result carries its simplified derivative.
func (e *Engine) Report(k int, derivative bool) (FinalReport, error) {
	res, err := e.Results(k)
	if err != nil {
		return FinalReport{}, err
	}
	e.mu.Lock()
	state, runErr, p := e.state, e.err, e.progress
	e.mu.Unlock()
	r := FinalReport{
		RunID:       e.runID,
		Config:      e.cfg,
		Seed:        e.seed,
		State:       state.String(),
		Generations: p.Generation,
		Created:     p.Created,
		BestFitness: finiteOrNil(p.BestFitness),
		MeanFitness: finiteOrNil(p.MeanFitness),
		Elapsed:     p.Elapsed,
		Results:     make([]ResultReport, len(res)),
	}
	if runErr != nil {
		r.Error = runErr.Error()
	}
	for i, x := range res {
		r.Results[i] = ResultReport{Rank: i + 1, Expr: x.Expr, Fitness: finiteOrNil(x.Fitness), Length: x.Length}
		if derivative {
			if tree, err := expr.Parse(x.Expr); err == nil {
				r.Results[i].Derivative = expr.Derive(tree).String()
			}
		}
	}
	return r, nil
}

// finiteOrNil maps NaN and infinities to JSON null.
func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func formatFitness(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.6g", *v)
}

// WriteTextProgress writes one progress line in human-readable format.
func WriteTextProgress(w io.Writer, p Progress) {
	fmt.Fprintf(w, "Gen %5d | Best: %-12.6g | Mean: %-12.6g | Created: %s | %s\n",
		p.Generation, p.BestFitness, p.MeanFitness, humanize.Comma(p.Created), p.Best)
}

// WriteTextFinal writes the final report in human-readable format.
func WriteTextFinal(w io.Writer, r FinalReport) {
	fmt.Fprintln(w, "\n========== FINAL RESULT ==========")
	fmt.Fprintf(w, "Run:         %s\n", r.RunID)
	fmt.Fprintf(w, "Model:       %s\n", r.Config.Model)
	fmt.Fprintf(w, "Pool:        %s\n", r.Config.Pool)
	fmt.Fprintf(w, "Seed:        %d\n", r.Seed)
	fmt.Fprintf(w, "State:       %s\n", r.State)
	if r.Error != "" {
		fmt.Fprintf(w, "Error:       %s\n", r.Error)
	}
	fmt.Fprintf(w, "Generations: %s\n", humanize.Comma(int64(r.Generations)))
	fmt.Fprintf(w, "Created:     %s\n", humanize.Comma(r.Created))
	fmt.Fprintf(w, "Fitness:     %s\n", formatFitness(r.BestFitness))
	fmt.Fprintf(w, "Elapsed:     %s\n", r.Elapsed.Round(time.Millisecond))
	for _, res := range r.Results {
		fmt.Fprintf(w, "  #%d: %-12s | len %3d | %s\n", res.Rank, formatFitness(res.Fitness), res.Length, res.Expr)
		if res.Derivative != "" {
			fmt.Fprintf(w, "       d/dx = %s\n", res.Derivative)
		}
	}
	fmt.Fprintln(w, "==================================")
}

// WriteJSONFinal writes the final report as JSON.
func WriteJSONFinal(w io.Writer, r FinalReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
