// Package vnpay implements the signed redirect payment gateway.
//
// Outbound URLs and inbound callbacks carry an HMAC-SHA512 signature over the
// canonical query string: every non-empty vnp_* parameter except the signature
// fields, URL-encoded, sorted by key and joined with '&'.
package vnpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/payment"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/clock"
	"orderflow/internal/pkg/errs"
)

const (
	ParamVersion           = "vnp_Version"
	ParamCommand           = "vnp_Command"
	ParamTmnCode           = "vnp_TmnCode"
	ParamAmount            = "vnp_Amount"
	ParamCreateDate        = "vnp_CreateDate"
	ParamCurrCode          = "vnp_CurrCode"
	ParamIPAddr            = "vnp_IpAddr"
	ParamLocale            = "vnp_Locale"
	ParamOrderInfo         = "vnp_OrderInfo"
	ParamOrderType         = "vnp_OrderType"
	ParamReturnURL         = "vnp_ReturnUrl"
	ParamTxnRef            = "vnp_TxnRef"
	ParamSecureHash        = "vnp_SecureHash"
	ParamSecureHashType    = "vnp_SecureHashType"
	ParamResponseCode      = "vnp_ResponseCode"
	ParamTransactionNo     = "vnp_TransactionNo"
	ParamTransactionStatus = "vnp_TransactionStatus"

	paramPrefix   = "vnp_"
	successCode   = "00"
	createDateFmt = "20060102150405"
	refSeparator  = "_"
)

var _ ports.RedirectGateway = (*Gateway)(nil)

// Merchant timestamps are Vietnam local time.
var vietnam = time.FixedZone("ICT", 7*60*60)

// Config holds the merchant settings issued by the gateway.
type Config struct {
	TmnCode    string
	HashSecret string
	PayURL     string
	ReturnURL  string
	Version    string
	Command    string
	CurrCode   string
	Locale     string
	OrderType  string
}

func (c Config) Validate() error {
	var all []error
	if c.TmnCode == "" {
		all = append(all, errs.NewValueIsRequiredError("vnpay.tmnCode"))
	}
	if c.HashSecret == "" {
		all = append(all, errs.NewValueIsRequiredError("vnpay.hashSecret"))
	}
	if c.PayURL == "" {
		all = append(all, errs.NewValueIsRequiredError("vnpay.payURL"))
	}
	if c.ReturnURL == "" {
		all = append(all, errs.NewValueIsRequiredError("vnpay.returnURL"))
	}
	return errors.Join(all...)
}

func (c Config) withDefaults() Config {
	if c.Version == "" {
		c.Version = "2.1.0"
	}
	if c.Command == "" {
		c.Command = "pay"
	}
	if c.CurrCode == "" {
		c.CurrCode = "VND"
	}
	if c.Locale == "" {
		c.Locale = "vn"
	}
	if c.OrderType == "" {
		c.OrderType = "other"
	}
	return c
}

// Request is the typed outbound parameter set.
type Request struct {
	Version    string
	Command    string
	TmnCode    string
	Amount     int64
	CreateDate time.Time
	CurrCode   string
	IPAddr     string
	Locale     string
	OrderInfo  string
	OrderType  string
	ReturnURL  string
	TxnRef     string
}

// Params returns the request as wire parameters, without the signature.
func (r Request) Params() url.Values {
	return url.Values{
		ParamVersion:    {r.Version},
		ParamCommand:    {r.Command},
		ParamTmnCode:    {r.TmnCode},
		ParamAmount:     {strconv.FormatInt(r.Amount, 10)},
		ParamCreateDate: {r.CreateDate.In(vietnam).Format(createDateFmt)},
		ParamCurrCode:   {r.CurrCode},
		ParamIPAddr:     {r.IPAddr},
		ParamLocale:     {r.Locale},
		ParamOrderInfo:  {r.OrderInfo},
		ParamOrderType:  {r.OrderType},
		ParamReturnURL:  {r.ReturnURL},
		ParamTxnRef:     {r.TxnRef},
	}
}

// Gateway builds signed payment URLs and verifies signed callbacks.
type Gateway struct {
	cfg   Config
	clock clock.Clock
}

func NewGateway(cfg Config, c clock.Clock) (*Gateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Gateway{cfg: cfg.withDefaults(), clock: c}, nil
}

func (g *Gateway) Gateway() payment.Gateway {
	return payment.VNPay
}

// BuildOutboundRequest returns the signed payment URL for an existing order.
// The transaction reference is derived from the order id and the current time,
// so every attempt for the same order gets a distinct reference.
func (g *Gateway) BuildOutboundRequest(_ context.Context, intent payment.Intent) (string, error) {
	if err := intent.Validate(); err != nil {
		return "", err
	}
	if intent.OrderID == nil {
		return "", errs.NewValueIsRequiredError("orderId")
	}

	now := g.clock.Now()
	ref := intent.Reference
	if ref == "" {
		ref = NewTxnRef(*intent.OrderID, now)
	}

	req := Request{
		Version:    g.cfg.Version,
		Command:    g.cfg.Command,
		TmnCode:    g.cfg.TmnCode,
		Amount:     intent.Amount.MinorUnits(),
		CreateDate: now,
		CurrCode:   g.cfg.CurrCode,
		IPAddr:     intent.ClientIP,
		Locale:     g.cfg.Locale,
		OrderInfo:  intent.Description,
		OrderType:  g.cfg.OrderType,
		ReturnURL:  g.cfg.ReturnURL,
		TxnRef:     ref,
	}

	query := canonicalize(req.Params())
	return g.cfg.PayURL + "?" + query + "&" + ParamSecureHash + "=" + Sign(g.cfg.HashSecret, query), nil
}

// VerifyInboundCallback checks the signature and maps the callback to a Result.
func (g *Gateway) VerifyInboundCallback(params url.Values) (payment.Result, error) {
	cb := g.Authenticate(params)
	ref := cb.Params.Get(ParamTxnRef)
	if !cb.Verified {
		return payment.Result{}, errs.NewInvalidSignatureError(payment.VNPay.String(), ref)
	}
	params = cb.Params

	orderID, err := OrderIDFromTxnRef(ref)
	if err != nil {
		return payment.Result{}, err
	}

	minor, err := strconv.ParseInt(params.Get(ParamAmount), 10, 64)
	if err != nil {
		return payment.Result{}, errs.NewValueIsInvalidErrorWithCause(ParamAmount, err)
	}
	amount, err := kernel.MoneyFromMinorUnits(minor)
	if err != nil {
		return payment.Result{}, err
	}

	code := params.Get(ParamResponseCode)
	status := params.Get(ParamTransactionStatus)

	return payment.Result{
		Gateway:       payment.VNPay,
		Reference:     ref,
		OrderID:       &orderID,
		Success:       code == successCode && (status == "" || status == successCode),
		ResultCode:    code,
		TransactionID: params.Get(ParamTransactionNo),
		Amount:        amount,
	}, nil
}

// Authenticate wraps raw callback params and recomputes their signature in
// constant time. Verified is false for a missing, malformed or wrong signature.
func (g *Gateway) Authenticate(params url.Values) payment.Callback {
	cb := payment.Callback{
		Gateway:   payment.VNPay,
		Params:    params,
		Signature: params.Get(ParamSecureHash),
	}

	received, err := hex.DecodeString(strings.ToLower(cb.Signature))
	if err != nil || len(received) == 0 {
		return cb
	}
	expected, _ := hex.DecodeString(SignParams(g.cfg.HashSecret, params))
	cb.Verified = hmac.Equal(received, expected)
	return cb
}

// Sign returns the hex HMAC-SHA512 of data.
func Sign(secret, data string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignParams signs params the way the gateway does. It is what a sandbox or
// test double uses to produce a valid callback.
func SignParams(secret string, params url.Values) string {
	return Sign(secret, canonicalize(params))
}

// NewTxnRef returns "<orderId>_<unix nanos>".
func NewTxnRef(orderID kernel.UUID, now time.Time) string {
	return orderID.String() + refSeparator + strconv.FormatInt(now.UnixNano(), 10)
}

// OrderIDFromTxnRef recovers the order id from a reference built by NewTxnRef.
func OrderIDFromTxnRef(ref string) (kernel.UUID, error) {
	prefix, _, found := strings.Cut(ref, refSeparator)
	if !found {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(ParamTxnRef, fmt.Errorf("malformed reference %q", ref))
	}
	return kernel.UUIDFromString(prefix)
}

// canonicalize is the single definition of the signed string, shared by the
// outbound and inbound paths.
func canonicalize(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if !strings.HasPrefix(k, paramPrefix) || k == ParamSecureHash || k == ParamSecureHashType {
			continue
		}
		if params.Get(k) == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params.Get(k)))
	}
	return b.String()
}
