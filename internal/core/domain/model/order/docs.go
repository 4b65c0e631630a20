// Package order contains the Order aggregate, its status machine and the Draft
// payload customers submit.
//
// All mutations go through methods on Order, and every status change passes
// ValidateTransition. Persistence adapters apply these methods inside a single
// conditional update so concurrent callers cannot both succeed.
package order
