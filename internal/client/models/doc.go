// Package models defines the expense record, its wire document form and the
// validation rules applied to user input before anything reaches the remote
// store.
package models
