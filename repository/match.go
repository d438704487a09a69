/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package repository

import (
	"fmt"
	"time"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
	"github.com/suparena/persist/errors"
)

// MatchExpr compiles a boolean expr-lang expression into a Predicate.
// The expression sees name, size, hasSize, createdOn, modifiedOn and now:
//
//	size > 1024 && name startsWith "report-"
//	modifiedOn > now - duration("24h")
//
// Unset sizes read as -1 and unset timestamps as the zero time.
func MatchExpr(expression string) (Predicate, error) {
	if expression == "" {
		return nil, errors.NewValidationError("expression", "must not be empty")
	}

	program, err := exprlang.Compile(expression,
		exprlang.Env(matchEnv(ItemMetadata{}, time.Time{})),
		exprlang.AsBool(),
	)
	if err != nil {
		return nil, errors.NewValidationError("expression", err.Error())
	}

	return func(md ItemMetadata) bool {
		return runMatch(program, md)
	}, nil
}

// MustMatchExpr is like MatchExpr but panics if the expression does not compile.
func MustMatchExpr(expression string) Predicate {
	p, err := MatchExpr(expression)
	if err != nil {
		panic(fmt.Sprintf("repository: %v", err))
	}
	return p
}

func runMatch(program *exprvm.Program, md ItemMetadata) bool {
	out, err := exprlang.Run(program, matchEnv(md, time.Now()))
	if err != nil {
		return false
	}
	ok, _ := out.(bool)
	return ok
}

func matchEnv(md ItemMetadata, now time.Time) map[string]any {
	size := int64(-1)
	if md.Size != nil {
		size = *md.Size
	}
	var created, modified time.Time
	if md.CreatedOn != nil {
		created = time.Time(*md.CreatedOn)
	}
	if md.ModifiedOn != nil {
		modified = time.Time(*md.ModifiedOn)
	}
	return map[string]any{
		"name":       md.Name,
		"size":       size,
		"hasSize":    md.Size != nil,
		"createdOn":  created,
		"modifiedOn": modified,
		"now":        now,
	}
}
