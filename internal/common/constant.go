// Package common contains shared constants and sentinel errors used across
// expensetracker components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// ExpensesCollection is the document collection holding expense records.
const ExpensesCollection = "expenses"
