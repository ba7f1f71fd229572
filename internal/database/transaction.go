package database

// Transaction Utilities
//
// Ledger operations rarely touch a single record: a purchase moves a
// balance and bumps two counters, a settlement refunds, mints and
// deletes. Two patterns cover those shapes:
//
// # AtomicBatch
//
// Fluent API for statements that must commit together in one SurrealDB
// transaction:
//
//	batch := NewAtomicBatch()
//	batch.Add(query1, vars1)
//	batch.Add(query2, vars2)
//	batch.Execute(ctx, db)  // All or nothing
//
// # TxBuilder (For complex variable handling)
//
// Use when combining queries with potentially conflicting variable names.
// Variables are automatically namespaced ($amount -> $v1_amount):
//
//	tb := NewTxBuilder()
//	tb.Add("UPDATE $pool SET amount += $amount", vars1)
//	tb.Add("UPDATE $buyer SET amount -= $amount", vars2)
//	ExecuteTransaction(ctx, db, tb)
//
// # MultiStepOperation (For cross-store workflows)
//
// Use when a workflow spans stores that cannot share one database
// transaction (value transfers plus record mutations). Each step can
// fail and triggers compensation of the completed steps in reverse
// order:
//
//	mso := NewMultiStepOperation()
//	mso.AddStep("debit buyer", executeFunc, rollbackFunc)
//	mso.AddStep("record purchase", executeFunc, rollbackFunc)
//	mso.Execute(ctx)
//
// IMPORTANT: AtomicBatch and TxBuilder are BATCH-BASED. Queries
// accumulate and execute together at commit time. There is no isolation
// between Add() calls.

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
)

// TxBuilder builds atomic transaction queries with automatic variable namespacing.
// This prevents variable name collisions when combining queries from different sources.
//
// Example: Two queries both using $amount get namespaced to $v1_amount and $v2_amount.
type TxBuilder struct {
	statements []string
	vars       map[string]interface{}
	varCounter uint64
}

// NewTxBuilder creates a new transaction builder
func NewTxBuilder() *TxBuilder {
	return &TxBuilder{
		statements: make([]string, 0),
		vars:       make(map[string]interface{}),
	}
}

// Add adds a statement to the transaction, namespacing variables to avoid collisions
// Returns the namespaced variable map for reference
func (tb *TxBuilder) Add(query string, vars map[string]interface{}) map[string]string {
	// Create unique variable names to avoid collisions
	varMapping := make(map[string]string)
	newQuery := query

	for varName, varValue := range vars {
		counter := atomic.AddUint64(&tb.varCounter, 1)
		newVarName := fmt.Sprintf("v%d_%s", counter, varName)

		// Replace $varName with $newVarName in query
		newQuery = strings.ReplaceAll(newQuery, "$"+varName, "$"+newVarName)

		tb.vars[newVarName] = varValue
		varMapping[varName] = newVarName
	}

	tb.statements = append(tb.statements, newQuery)
	return varMapping
}

// AddRaw adds a raw statement without variable substitution
func (tb *TxBuilder) AddRaw(query string) {
	tb.statements = append(tb.statements, query)
}

// Build returns the complete transaction query and merged variables
func (tb *TxBuilder) Build() (string, map[string]interface{}) {
	if len(tb.statements) == 0 {
		return "", nil
	}

	// Wrap in transaction block
	var sb strings.Builder
	sb.WriteString("BEGIN TRANSACTION;\n")
	for _, stmt := range tb.statements {
		sb.WriteString(stmt)
		if !strings.HasSuffix(strings.TrimSpace(stmt), ";") {
			sb.WriteString(";")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("COMMIT TRANSACTION;")

	return sb.String(), tb.vars
}

// ExecuteTransaction executes a transaction built with TxBuilder
func ExecuteTransaction(ctx context.Context, db Database, tb *TxBuilder) ([]interface{}, error) {
	query, vars := tb.Build()
	if query == "" {
		return nil, nil
	}

	return db.Query(ctx, query, vars)
}

// MultiStepOperation executes a series of operations with compensation on failure.
// Each step can return an error to stop execution and trigger rollback of the
// steps already completed, in reverse order. Compensation is best-effort: a
// failed rollback is logged and the remaining rollbacks still run.
type MultiStepOperation struct {
	steps []multiStep
}

type multiStep struct {
	name     string
	execute  func(ctx context.Context) error
	rollback func(ctx context.Context) error
}

// NewMultiStepOperation creates a new multi-step operation
func NewMultiStepOperation() *MultiStepOperation {
	return &MultiStepOperation{
		steps: make([]multiStep, 0),
	}
}

// AddStep adds a step with optional rollback
func (mso *MultiStepOperation) AddStep(name string, execute func(ctx context.Context) error, rollback func(ctx context.Context) error) {
	mso.steps = append(mso.steps, multiStep{
		name:     name,
		execute:  execute,
		rollback: rollback,
	})
}

// Execute runs all steps, rolling back completed steps on failure
func (mso *MultiStepOperation) Execute(ctx context.Context) error {
	completedSteps := make([]int, 0, len(mso.steps))

	for i, step := range mso.steps {
		if err := step.execute(ctx); err != nil {
			// Rollback in reverse order
			for j := len(completedSteps) - 1; j >= 0; j-- {
				stepIdx := completedSteps[j]
				if mso.steps[stepIdx].rollback != nil {
					if rbErr := mso.steps[stepIdx].rollback(ctx); rbErr != nil {
						slog.Error("rollback failed",
							"step", mso.steps[stepIdx].name,
							"error", rbErr,
						)
					}
				}
			}
			return fmt.Errorf("step %s failed: %w", step.name, err)
		}
		completedSteps = append(completedSteps, i)
	}

	return nil
}

// AtomicBatch provides a simpler API for batch operations that should be atomic
type AtomicBatch struct {
	queries []batchQuery
}

type batchQuery struct {
	query string
	vars  map[string]interface{}
}

// NewAtomicBatch creates a new atomic batch
func NewAtomicBatch() *AtomicBatch {
	return &AtomicBatch{
		queries: make([]batchQuery, 0),
	}
}

// Add adds a query to the batch
func (ab *AtomicBatch) Add(query string, vars map[string]interface{}) *AtomicBatch {
	ab.queries = append(ab.queries, batchQuery{query: query, vars: vars})
	return ab
}

// Execute runs all queries as a single transaction
func (ab *AtomicBatch) Execute(ctx context.Context, db Database) error {
	if len(ab.queries) == 0 {
		return nil
	}

	tb := NewTxBuilder()
	for _, q := range ab.queries {
		tb.Add(q.query, q.vars)
	}

	_, err := ExecuteTransaction(ctx, db, tb)
	return err
}

// Len returns the number of queries in the batch
func (ab *AtomicBatch) Len() int {
	return len(ab.queries)
}
