// Package models defines the core domain models for BudgetLink.
//
// # Models
//
//   - Budget: a shareable budget, addressed by a human-readable slug
//   - Expense: a single cost logged against a budget
//   - Payment: a settlement transfer that participants marked as paid
//   - Event: an entry in a budget's activity log
//
// Participants are identified by display name (strings) within a budget;
// there are no user accounts.
//
// # Design Principles
//
// 1. **Money is decimal**: every amount is a shopspring decimal, never float64
// 2. **No secrets on the wire**: PasswordHash never leaves the service layer
// 3. **Slug as key**: every child record references its budget by slug
package models
