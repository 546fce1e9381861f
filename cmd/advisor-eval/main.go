// advisor-eval evaluates feature records in batch: one JSON record per input
// line, one JSON decision per output line. It runs the strategies in-process
// by default, or against a running advisord when ADVISOR_URL is set, so an
// evaluation harness can replay a compilation's decision trace either way.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/aeopt/advisor/internal/client"
	"github.com/aeopt/advisor/internal/feature"
	"github.com/aeopt/advisor/internal/heuristic"
	"github.com/aeopt/advisor/internal/param"
)

type record struct {
	Kind     string          `json:"kind"`
	Variant  string          `json:"variant,omitempty"`
	Features json.RawMessage `json:"features"`
}

func main() {
	in := os.Stdin
	if len(os.Args) > 1 && os.Args[1] != "-" {
		f, err := os.Open(os.Args[1])
		if err != nil {
			log.Fatalf("open input: %v", err)
		}
		defer f.Close()
		in = f
	}

	var remote *client.Client
	if base := os.Getenv("ADVISOR_URL"); base != "" {
		remote = client.New(base)
		remote.APIKey = os.Getenv("ADVISOR_API_KEY")
	}

	registry := heuristic.NewRegistry()
	params := paramsFromEnv()

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}

		var rec record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			log.Fatalf("line %d: invalid record: %v", line, err)
		}

		result, err := evaluate(rec, registry, params, remote)
		if err != nil {
			log.Fatalf("line %d: %v", line, err)
		}

		enc, err := json.Marshal(result)
		if err != nil {
			log.Fatalf("line %d: encode: %v", line, err)
		}
		fmt.Fprintln(out, string(enc))
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("read input: %v", err)
	}
}

func evaluate(rec record, registry *heuristic.Registry, params param.Set, remote *client.Client) (any, error) {
	ctx := context.Background()

	switch rec.Kind {
	case "inline":
		var features map[string]int64
		if err := json.Unmarshal(rec.Features, &features); err != nil {
			return nil, fmt.Errorf("inline features: %w", err)
		}
		variant := orDefault(rec.Variant, registry, heuristic.DecisionInline)
		if remote != nil {
			return remote.DecideInline(ctx, variant, features)
		}
		strat, ok := registry.Inline(variant)
		if !ok {
			return nil, fmt.Errorf("unknown inline variant %q", variant)
		}
		v := feature.CallSiteVectorFromMap(features)
		cost := strat(&v, params)
		return map[string]any{
			"kind":    "inline",
			"variant": variant,
			"cost":    cost,
			"inline":  heuristic.ShouldInline(cost),
		}, nil

	case "unroll":
		var features feature.LoopFeatures
		if err := json.Unmarshal(rec.Features, &features); err != nil {
			return nil, fmt.Errorf("unroll features: %w", err)
		}
		variant := orDefault(rec.Variant, registry, heuristic.DecisionUnroll)
		if remote != nil {
			return remote.DecideUnroll(ctx, variant, features)
		}
		strat, ok := registry.Unroll(variant)
		if !ok {
			return nil, fmt.Errorf("unknown unroll variant %q", variant)
		}
		return map[string]any{
			"kind":    "unroll",
			"variant": variant,
			"factor":  strat(features, params),
		}, nil

	case "regalloc":
		var features feature.LiveRangeFeatures
		if err := json.Unmarshal(rec.Features, &features); err != nil {
			return nil, fmt.Errorf("regalloc features: %w", err)
		}
		variant := orDefault(rec.Variant, registry, heuristic.DecisionRegallocPriority)
		if remote != nil {
			return remote.DecideRegalloc(ctx, variant, features)
		}
		strat, ok := registry.Priority(variant)
		if !ok {
			return nil, fmt.Errorf("unknown regalloc variant %q", variant)
		}
		return map[string]any{
			"kind":     "regalloc",
			"variant":  variant,
			"priority": strat(features, params),
		}, nil
	}

	return nil, fmt.Errorf("unknown kind %q", rec.Kind)
}

func orDefault(variant string, registry *heuristic.Registry, point heuristic.DecisionPoint) string {
	if variant != "" {
		return variant
	}
	return registry.DefaultVariant(point)
}

// paramsFromEnv reads knob overrides from the environment, one variable per
// knob: ae-inline-base-threshold becomes AE_INLINE_BASE_THRESHOLD. Values out
// of range are clamped by the loader.
func paramsFromEnv() param.Set {
	values := map[string]int64{}
	for _, d := range param.Definitions() {
		env := strings.ToUpper(strings.ReplaceAll(d.Name, "-", "_"))
		raw := os.Getenv(env)
		if raw == "" {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Fatalf("invalid %s=%q: %v", env, raw, err)
		}
		values[d.Name] = n
	}
	return param.Load(values)
}
