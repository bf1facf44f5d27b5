package gosch

import (
	"bytes"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestScenarios exercises a handful of representative end-to-end programs
// through the host facade exactly as an embedder would invoke it, snapshot-
// asserting the printed result of each (gkampitakis/go-snaps).
func TestScenarios(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"arithmetic", "(+ 1 2 3)"},
		{"factorial", "(define (fact n) (if (= n 0) 1 (* n (fact (- n 1))))) (fact 5)"},
		{"tail_call_depth", "(define (count n) (if (= n 0) 'done (count (- n 1)))) (count 100000)"},
		{"macro", "(define-syntax my-if (syntax-rules () ((_ a b c) (if a b c)))) (my-if #t 1 2)"},
		{"mutual_recursion", `(define (outer)
		  (define (even? n) (if (= n 0) #t (odd? (- n 1))))
		  (define (odd? n) (if (= n 0) #f (even? (- n 1))))
		  (even? 10))
		(outer)`},
		{"try_recover", "(try! (/ 1 0) (quote recovered))"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			e, err := NewBase(&out)
			if err != nil {
				t.Fatalf("NewBase: %v", err)
			}
			results, err := e.Run(tc.src)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			last := results[len(results)-1]
			snaps.MatchSnapshot(t, tc.name, last.String())
		})
	}
}

func TestEngineLifecycleAndRegistration(t *testing.T) {
	var out bytes.Buffer
	e, err := NewBase(&out)
	if err != nil {
		t.Fatalf("NewBase: %v", err)
	}
	results, err := e.Run("(define x (+ 40 2)) x")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := results[len(results)-1].String(); got != "42" {
		t.Fatalf("got %s, want 42", got)
	}
	v, err := e.ExtractValue("x")
	if err != nil {
		t.Fatalf("ExtractValue: %v", err)
	}
	if v.String() != "42" {
		t.Fatalf("ExtractValue: got %s, want 42", v.String())
	}
}

func TestEngineFreeIdentifierProducesGoschError(t *testing.T) {
	e, err := NewBase(nil)
	if err != nil {
		t.Fatalf("NewBase: %v", err)
	}
	_, err = e.Run("undefined-name")
	if err == nil {
		t.Fatalf("expected error")
	}
	ge, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *gosch.Error, got %T", err)
	}
	if ge.Kind != "FreeIdentifier" {
		t.Fatalf("got kind %s", ge.Kind)
	}
	report := e.Diagnose(err)
	if len(report) == 0 {
		t.Fatalf("expected non-empty diagnostic report")
	}
}

func TestNewWithPreludeLoadsDerivedForms(t *testing.T) {
	var out bytes.Buffer
	e, err := NewWithPrelude(&out)
	if err != nil {
		t.Fatalf("NewWithPrelude: %v", err)
	}
	results, err := e.Run("(and 1 2 3)")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := results[0].String(); got != "3" {
		t.Fatalf("got %s, want 3", got)
	}
}
