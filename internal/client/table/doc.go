// Package table derives the filtered, sorted view of a synchronized
// collection and keeps the multi-selection used by bulk actions.
//
// The controller never mutates the collection it reads. View parameters
// live in an explicitly owned ViewState, so two views over the same store
// (say, a list and a dashboard widget) keep independent filters.
package table
