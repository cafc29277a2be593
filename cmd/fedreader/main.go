package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mhaugland/ReactionEnergyDiagrams/src/dataset"
	"github.com/mhaugland/ReactionEnergyDiagrams/src/orr"
)

func main() {
	var file string
	var groupBy string
	var bias float64
	var logLevel string
	flag.StringVar(&file, "file", "adsorption_results.csv", "Path to adsorption results (.csv or .jsonl)")
	flag.StringVar(&groupBy, "groupby", "", "Comma-separated grouping columns")
	flag.Float64Var(&bias, "bias", 0, "Applied bias in V")
	flag.StringVar(&logLevel, "loglevel", "", "Log level: debug, info, warn or error")
	flag.Parse()
	if logLevel != "" {
		dataset.SetLogLevel(logLevel)
	}

	rows, err := dataset.Load(file, dataset.LoadOptions{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	var cols []string
	for _, c := range strings.Split(groupBy, ",") {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}
	diagrams, err := orr.LowestEnergyDiagrams(rows, cols, "all")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Groups: %d\n", len(diagrams))
	for _, gd := range diagrams {
		res, err := gd.Diagram.Overpotential()
		if err != nil {
			fmt.Printf("%s: overpotential n/a (%v)\n", gd.Key, err)
			continue
		}
		line := fmt.Sprintf("%s: overpotential %.2f eV, limiting step %s -> %s",
			gd.Key, res.Value, res.LimitingStep[0], res.LimitingStep[1])
		if op, err := gd.Diagram.PeroxideOverpotential(); err == nil {
			line += fmt.Sprintf(", H2O2 overpotential %.2f eV", op)
		}
		fmt.Println(line)
		if bias != 0 {
			p := orr.ApplyBias(gd.Diagram.Path, bias)
			parts := make([]string, p.Len())
			for i, e := range p.Energies {
				if v, ok := e.Value(); ok {
					parts[i] = fmt.Sprintf("%s=%.2f", p.States[i], v)
				} else {
					parts[i] = p.States[i] + "=?"
				}
			}
			fmt.Printf("  at %.2f V: %s\n", bias, strings.Join(parts, " "))
		}
	}
}
