package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/syssam/photon/runtime/deepset"
	"github.com/syssam/photon/runtime/dmmf"
	"github.com/syssam/photon/runtime/query"
)

// ErrNotConnected is returned by requests on an engine that was not started.
var ErrNotConnected = errors.New("runtime: engine not connected")

// DMMFClass is the indexed schema document a client issues requests against.
type DMMFClass = dmmf.Class

// Args are the arguments of a single action.
type Args map[string]any

// MustParseDMMF decodes the schema document embedded in a generated client.
func MustParseDMMF(raw string) *DMMFClass {
	class, err := dmmf.ParseClass([]byte(raw))
	if err != nil {
		panic(err)
	}
	return class
}

// MakeDocument renders the GraphQL document for one action.
func MakeDocument(class *DMMFClass, action string, args Args, selection []string) (string, error) {
	doc, err := query.MakeDocument(class, action, map[string]any(args), selection)
	if err != nil {
		return "", err
	}
	if doc, err = query.TransformDocument(doc); err != nil {
		return "", err
	}
	return doc.String(), nil
}

// RequestError is an error reported by the engine for an action.
type RequestError struct {
	Action  string
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("runtime: %s: %s", e.Action, e.Message)
}

type engineError struct {
	Error           string `json:"error"`
	Message         string `json:"message"`
	UserFacingError *struct {
		Message string `json:"message"`
	} `json:"user_facing_error"`
}

func (e engineError) text() string {
	switch {
	case e.UserFacingError != nil && e.UserFacingError.Message != "":
		return e.UserFacingError.Message
	case e.Message != "":
		return e.Message
	default:
		return e.Error
	}
}

type response struct {
	Data   map[string]any `json:"data"`
	Errors []engineError  `json:"errors"`
}

// Execute sends document to engine and decodes the result of action into
// out. A nil out discards the result.
func Execute(ctx context.Context, engine Engine, document, action string, out any) error {
	raw, err := engine.Request(ctx, document)
	if err != nil {
		return err
	}
	var resp response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("runtime: decode response of %s: %w", action, err)
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			msgs = append(msgs, e.text())
		}
		return &RequestError{Action: action, Message: strings.Join(msgs, "; ")}
	}
	result, ok := deepset.Get(map[string]any(resp.Data), []string{action})
	if !ok {
		return &RequestError{Action: action, Message: "missing result"}
	}
	if out == nil || result == nil {
		return nil
	}
	buf, err := json.Marshal(result)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(buf, out); err != nil {
		return fmt.Errorf("runtime: decode result of %s: %w", action, err)
	}
	return nil
}
