// Package models defines the core domain models for SpendSplit.
//
// # Models
//
//   - User: a person, created on first verified sign-in or by the seed script
//   - Group: a set of users who share expenses (SHORT or LONG term)
//   - GroupMember: the group/user join record, capped at 32 members per group
//   - Expense: a payment made by one member on behalf of the group
//   - ExpenseSplit: one participant's share of an expense
//   - ArchivedGroup: one-to-one marker for groups flagged inactive
//
// # Design principles
//
//  1. IDs are UUID strings; relationships use ID strings, never pointers,
//     to avoid circular references.
//  2. Money is fixed-point (money.Cents) everywhere; floats exist only at
//     the JSON boundary.
//  3. Splits are written for every participant including the payer and must
//     sum exactly to the expense amount, so member balances always sum to
//     zero across a group.
package models
