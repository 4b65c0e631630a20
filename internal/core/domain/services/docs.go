// Package services holds domain rules that need more than one aggregate.
//
// SelfServicePolicy combines a Courier and an Order to decide whether the
// courier may claim the order without a dispatcher.
package services
