package main

import (
	"fmt"
	"io"
	"strings"
)

func formatMap(order []string, values map[string]int) string {
	parts := make([]string, 0, len(order))
	for _, inst := range order {
		parts = append(parts, fmt.Sprintf("%q: %d", inst, values[inst]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func printDemand(w io.Writer, order []string, demand map[string]int) {
	fmt.Fprintf(w, "Demand Predictions: %s\n\n", formatMap(order, demand))
}

func printCapacity(w io.Writer, order []string, capacity map[string]int) {
	fmt.Fprintf(w, "Available Resources: %s\n\n", formatMap(order, capacity))
}

func printAllocations(w io.Writer, order []string, allocations map[string]int) {
	fmt.Fprintln(w, "Optimized Resource Allocations:")
	for _, inst := range order {
		fmt.Fprintf(w, "Institution %s: %d resources\n", inst, allocations[inst])
	}
}
