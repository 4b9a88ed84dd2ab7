package engine

import (
	"fmt"
	"strconv"
	"time"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/config"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/metrics"
)

// ThresholdResult contains the result of a threshold evaluation.
type ThresholdResult struct {
	Metric     string `json:"metric"`
	Expression string `json:"expression"`
	Passed     bool   `json:"passed"`
	Value      string `json:"value"`
	Message    string `json:"message,omitempty"`
}

// EvaluateThresholds checks every expression against snapshot.
func EvaluateThresholds(exprs []string, snapshot *metrics.Snapshot) []ThresholdResult {
	if len(exprs) == 0 {
		return nil
	}

	results := make([]ThresholdResult, 0, len(exprs))
	for _, expr := range exprs {
		results = append(results, evaluateThreshold(expr, snapshot))
	}
	return results
}

// evaluateThreshold evaluates one expression like "p95 < 2s" or
// "pages_per_second > 10".
func evaluateThreshold(expr string, snapshot *metrics.Snapshot) ThresholdResult {
	result := ThresholdResult{Expression: expr}

	metric, op, valueStr, err := config.ParseThresholdExpression(expr)
	if err != nil {
		result.Message = fmt.Sprintf("failed to parse expression: %v", err)
		return result
	}
	result.Metric = metric

	switch metric {
	case "pages_per_second", "failures":
		return evaluateNumericThreshold(result, op, valueStr, snapshot)
	}

	var actualValue time.Duration
	switch metric {
	case "min":
		actualValue = snapshot.Render.Min
	case "max":
		actualValue = snapshot.Render.Max
	case "avg":
		actualValue = snapshot.Render.Mean
	case "med", "p50":
		actualValue = snapshot.Render.P50
	case "p90":
		actualValue = snapshot.Render.P90
	case "p95":
		actualValue = snapshot.Render.P95
	case "p99":
		actualValue = snapshot.Render.P99
	default:
		result.Message = fmt.Sprintf("unknown metric: %s", metric)
		return result
	}

	thresholdValue, err := time.ParseDuration(valueStr)
	if err != nil {
		result.Message = fmt.Sprintf("failed to parse threshold value: %v", err)
		return result
	}

	result.Value = actualValue.String()
	result.Passed = compareValues(float64(actualValue), op, float64(thresholdValue))

	if !result.Passed {
		result.Message = fmt.Sprintf("%s is %s, threshold: %s %s", metric, actualValue, op, thresholdValue)
	}

	return result
}

func evaluateNumericThreshold(result ThresholdResult, op, valueStr string, snapshot *metrics.Snapshot) ThresholdResult {
	thresholdValue, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		result.Message = fmt.Sprintf("failed to parse threshold value: %v", err)
		return result
	}

	var actualValue float64
	if result.Metric == "failures" {
		actualValue = float64(snapshot.FailedRuns)
	} else {
		actualValue = snapshot.PagesPerSecond
	}

	result.Value = fmt.Sprintf("%.2f", actualValue)
	result.Passed = compareValues(actualValue, op, thresholdValue)

	if !result.Passed {
		result.Message = fmt.Sprintf("%s is %.2f, threshold: %s %.2f", result.Metric, actualValue, op, thresholdValue)
	}
	return result
}

// compareValues compares two values using the given operator.
func compareValues(actual float64, op string, threshold float64) bool {
	switch op {
	case "<":
		return actual < threshold
	case "<=":
		return actual <= threshold
	case ">":
		return actual > threshold
	case ">=":
		return actual >= threshold
	case "==", "=":
		return actual == threshold
	case "!=", "<>":
		return actual != threshold
	default:
		return false
	}
}
