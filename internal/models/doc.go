// Package models defines the core domain models for SplitPot.
//
// # Models
//
//   - User: registered account that creates groups and records activity
//   - Group: a set of members sharing expenses in one currency
//   - GroupMember: one person inside a group; may link to a User
//   - Expense: money fronted by one member, divided into per-member splits
//   - ExpenseSplit: one member's share of an expense
//   - Settlement: a repayment between two members
//
// # Design Principles
//
//  1. **Member identity**: balance math runs on GroupMember IDs, never on
//     display names. A member does not need a user account; the optional
//     UserID link exists so registered users can see their groups.
//  2. **Avoid circular references**: relationships use ID strings instead of
//     pointers.
//  3. **Derived values are not stored**: balances and suggested repayments
//     are recomputed from expenses and settlements on every read.
//
// Amounts are stored as float64 currency units with two-decimal precision;
// write-side validation rejects anything finer than a cent before it reaches
// these models.
package models
