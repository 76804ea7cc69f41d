//go:build lambda

package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/tidwall/gjson"

	"scroll-optimizer/scrolling"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

var logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))

// solveResult is the Function URL response body.
type solveResult struct {
	Name    string    `json:"name"`
	PGoal   float64   `json:"pGoal"`
	ExpCost Cost      `json:"expCost"`
	Scroll  string    `json:"scroll,omitempty"`
	TimeMs  int64     `json:"timeMs"`
	Tree    *NodeView `json:"tree"`
}

// handler solves the problem document posted as the request body. An
// optional top-level "depth" limits the returned tree.
func handler(_ context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(400, "invalid base64 body")
		}
		body = string(decoded)
	}

	p, err := ParseProblem(body)
	if err != nil {
		return errResp(400, err.Error())
	}

	cfg := DefaultConfig()
	if d := gjson.Get(body, "depth"); d.Exists() {
		cfg.Depth = int(d.Int())
	}
	if err := cfg.Validate(); err != nil {
		return errResp(400, err.Error())
	}

	r, err := runProblem(p, cfg, logger)
	if err != nil {
		if isInputError(err) {
			return errResp(400, err.Error())
		}
		logger.Error("solve failed", "problem", p.Name, "error", err)
		return errResp(500, "solve failed")
	}

	view := NewReportView(r, cfg.Depth)
	resp := solveResult{
		Name:    view.Name,
		PGoal:   view.PGoal,
		ExpCost: view.ExpCost,
		Scroll:  view.Scroll,
		TimeMs:  view.TimeMs,
		Tree:    view.Tree,
	}
	respJSON, err := json.Marshal(resp)
	if err != nil {
		logger.Error("encode response", "problem", p.Name, "error", err)
		return errResp(500, "encode response")
	}
	return events.LambdaFunctionURLResponse{StatusCode: 200, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func isInputError(err error) bool {
	for _, target := range []error{
		ErrInvalidProblem,
		scrolling.ErrEmptyCatalog,
		scrolling.ErrLengthMismatch,
		scrolling.ErrProbabilityOutOfRange,
		scrolling.ErrInvalidCost,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	lambda.Start(handler)
}
