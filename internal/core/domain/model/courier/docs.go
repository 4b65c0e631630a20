// Package courier contains the Courier entity kept by the courier directory.
// Couriers do not own orders here; ownership lives on the Order aggregate and
// is granted by a conditional update.
package courier
