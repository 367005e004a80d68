// Package budgetv1 holds the request and response messages of the BudgetLink API.
//
// Messages travel as JSON. Money fields are decimal strings ("12.50") on the
// way out and accept either strings or numbers on the way in.
package budgetv1
