package domain

import (
	"github.com/shopspring/decimal"
)

// TreeOptions controls how BuildVarianceTree assembles its output.
type TreeOptions struct {
	// IncludeZeroVariances retains accounts whose budget and actual
	// are both zero.
	IncludeZeroVariances bool
	// IncludeChildren builds a hierarchical rollup by parent account
	// instead of a flat list.
	IncludeChildren bool
	Thresholds      Thresholds
}

// BuildVarianceTree computes a variance record for every account
// present on either side, matching by account id. An account missing
// from one side has that side's amount default to zero.
//
// With IncludeChildren set, records attach to their declared parent
// and parent totals roll up bottom-up; the parent's percent, severity,
// and direction are recomputed from the rolled-up totals. A record
// whose parent is not in the working set is promoted to a root, and
// its id is returned in the demoted list so callers can detect
// data-quality issues without the build ever failing.
func BuildVarianceTree(budgetLines []BudgetLine, actualLines []ActualLine, opts TreeOptions) (roots []*VarianceRecord, demoted []string) {
	budgetByID := make(map[string]BudgetLine, len(budgetLines))
	actualByID := make(map[string]ActualLine, len(actualLines))
	order := make([]string, 0, len(budgetLines)+len(actualLines))

	for _, bl := range budgetLines {
		if _, seen := budgetByID[bl.AccountID]; !seen {
			order = append(order, bl.AccountID)
		}
		budgetByID[bl.AccountID] = bl
	}
	for _, al := range actualLines {
		_, inBudget := budgetByID[al.AccountID]
		_, seen := actualByID[al.AccountID]
		if !inBudget && !seen {
			order = append(order, al.AccountID)
		}
		actualByID[al.AccountID] = al
	}

	records := make([]*VarianceRecord, 0, len(order))
	byID := make(map[string]*VarianceRecord, len(order))
	parentOf := make(map[string]string, len(order))

	for _, id := range order {
		budgetAmt := decimal.Zero
		actualAmt := decimal.Zero

		bl, hasBudget := budgetByID[id]
		al, hasActual := actualByID[id]
		if hasBudget {
			budgetAmt = bl.Amount
		}
		if hasActual {
			actualAmt = al.Amount
		}

		if budgetAmt.IsZero() && actualAmt.IsZero() && !opts.IncludeZeroVariances {
			continue
		}

		rec := &VarianceRecord{
			AccountID: id,
			Budget:    budgetAmt,
			Actual:    actualAmt,
		}
		if hasBudget {
			rec.AccountName = bl.AccountName
			rec.AccountType = bl.AccountType
			rec.AccountCode = bl.AccountCode
			rec.Period = bl.Period
			parentOf[id] = bl.ParentAccountID
		} else {
			rec.AccountName = al.AccountName
			rec.AccountType = al.AccountType
			rec.AccountCode = al.AccountCode
			rec.Period = al.Period
			parentOf[id] = al.ParentAccountID
		}

		basis := ComputeVariance(budgetAmt, actualAmt)
		rec.Variance = basis.Variance
		rec.VariancePercent = basis.VariancePercent
		rec.Direction = basis.Direction
		rec.Severity = ClassifySeverity(basis.VariancePercent, rec.AccountType, basis.Direction, opts.Thresholds)

		records = append(records, rec)
		byID[id] = rec
	}

	if !opts.IncludeChildren {
		return records, nil
	}

	childrenOf := make(map[string][]*VarianceRecord)
	for _, rec := range records {
		parentID := parentOf[rec.AccountID]
		if parentID == "" {
			roots = append(roots, rec)
			continue
		}
		if _, ok := byID[parentID]; !ok {
			demoted = append(demoted, rec.AccountID)
			roots = append(roots, rec)
			continue
		}
		childrenOf[parentID] = append(childrenOf[parentID], rec)
	}

	visited := make(map[string]bool, len(records))
	var attach func(rec *VarianceRecord, level int)
	attach = func(rec *VarianceRecord, level int) {
		visited[rec.AccountID] = true
		rec.Level = level

		for _, child := range childrenOf[rec.AccountID] {
			if visited[child.AccountID] {
				continue
			}
			attach(child, level+1)
			rec.Children = append(rec.Children, child)
			rec.Budget = rec.Budget.Add(child.Budget)
			rec.Actual = rec.Actual.Add(child.Actual)
		}

		if len(rec.Children) > 0 {
			basis := ComputeVariance(rec.Budget, rec.Actual)
			rec.Variance = basis.Variance
			rec.VariancePercent = basis.VariancePercent
			rec.Direction = basis.Direction
			rec.Severity = ClassifySeverity(basis.VariancePercent, rec.AccountType, basis.Direction, opts.Thresholds)
		}
	}

	for _, root := range roots {
		attach(root, 0)
	}

	// Records left unvisited sit inside a parent cycle. Promote the
	// first one encountered so the rest of its subtree attaches
	// normally; the visited set stops the cycle from re-entering.
	for _, rec := range records {
		if !visited[rec.AccountID] {
			demoted = append(demoted, rec.AccountID)
			roots = append(roots, rec)
			attach(rec, 0)
		}
	}

	return roots, demoted
}
