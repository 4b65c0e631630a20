// Package payment holds the gateway-neutral payment types: the outbound Intent,
// the raw inbound Callback and its interpreted Result.
package payment
