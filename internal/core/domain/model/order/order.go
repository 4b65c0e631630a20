package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

const codePrefix = "NF-"

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	ErrReasonIsRequired = errs.NewValueIsRequiredError("reason")
)

// Order is the aggregate root of a delivery order. It owns the status machine,
// courier ownership and COD settlement.
//
// Order follows these invariants:
//   - Assigned, Shipping and Done orders have a driver; Pending and GatewayPaid ones do not
//   - isCodPaid implies status Done and a positive COD amount
//   - Every timestamp is set at most once
//   - Status only changes through ValidateTransition
//
// Persistence adapters never write fields directly: they restore an Order from a
// Snapshot, call one of the mutating methods and store the resulting Snapshot.
type Order struct {
	id         kernel.UUID
	code       string
	customerID kernel.UUID
	driverID   *kernel.UUID

	serviceLevel ServiceLevel
	shipFee      kernel.Money
	codAmount    kernel.Money
	isCodPaid    bool
	shipPayer    ShipPayer
	recipient    Recipient
	note         string

	status        Status
	proofRef      string
	deliveredNote string
	failedReason  string
	gatewayTxnRef string

	createdAt   time.Time
	assignedAt  *time.Time
	deliveredAt *time.Time
	failedAt    *time.Time
	codPaidAt   *time.Time
	paidAt      *time.Time

	guard guard.ConstructorGuard
}

// Snapshot is the flat, exported state of an Order used by persistence mappers.
type Snapshot struct {
	ID            kernel.UUID
	Code          string
	CustomerID    kernel.UUID
	DriverID      *kernel.UUID
	ServiceLevel  ServiceLevel
	ShipFee       kernel.Money
	CodAmount     kernel.Money
	IsCodPaid     bool
	ShipPayer     ShipPayer
	Recipient     Recipient
	Note          string
	Status        Status
	ProofRef      string
	DeliveredNote string
	FailedReason  string
	GatewayTxnRef string
	CreatedAt     time.Time
	AssignedAt    *time.Time
	DeliveredAt   *time.Time
	FailedAt      *time.Time
	CodPaidAt     *time.Time
	PaidAt        *time.Time
}

// NewOrder creates a Pending order from a customer draft.
//
// Parameters:
//   - id: fresh order identifier
//   - code: public tracking code, see GenerateCode
//   - customerID: the authenticated caller, never taken from a staged payload
//   - draft: validated customer input
//   - now: creation time
//
// Returns a joined validation error if any input is invalid.
//
// Example:
//
//	now := clock.Now()
//	o, err := order.NewOrder(kernel.NewUUID(), order.GenerateCode(now), caller, draft, now)
func NewOrder(id kernel.UUID, code string, customerID kernel.UUID, draft Draft, now time.Time) (*Order, error) {
	o := &Order{
		status:    Pending,
		createdAt: now.UTC(),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCode(code),
		o.setCustomerID(customerID),
		draft.Validate(),
	); err != nil {
		return nil, err
	}

	o.serviceLevel = draft.ServiceLevel
	o.shipFee = draft.ShipFee
	o.codAmount = draft.CodAmount
	o.shipPayer = draft.ShipPayer
	o.recipient = draft.Recipient
	o.note = draft.Note

	return o, nil
}

// RestoreOrder rebuilds an aggregate from persisted state and re-checks its invariants.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		code:          s.Code,
		driverID:      s.DriverID,
		serviceLevel:  s.ServiceLevel,
		shipFee:       s.ShipFee,
		codAmount:     s.CodAmount,
		isCodPaid:     s.IsCodPaid,
		shipPayer:     s.ShipPayer,
		recipient:     s.Recipient,
		note:          s.Note,
		status:        s.Status,
		proofRef:      s.ProofRef,
		deliveredNote: s.DeliveredNote,
		failedReason:  s.FailedReason,
		gatewayTxnRef: s.GatewayTxnRef,
		createdAt:     s.CreatedAt,
		assignedAt:    s.AssignedAt,
		deliveredAt:   s.DeliveredAt,
		failedAt:      s.FailedAt,
		codPaidAt:     s.CodPaidAt,
		paidAt:        s.PaidAt,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setCustomerID(s.CustomerID),
		s.Status.Validate(),
		s.ServiceLevel.Validate(),
		s.ShipPayer.Validate(),
	); err != nil {
		return nil, err
	}

	if err := o.checkInvariants(); err != nil {
		return nil, err
	}

	return o, nil
}

// GenerateCode builds a public tracking code such as NF-20250101093000-3F2A.
// The random suffix keeps codes created within the same second apart.
func GenerateCode(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(kernel.NewUUID().String(), "-", "")[:4])
	return codePrefix + now.UTC().Format("20060102150405") + "-" + suffix
}

// Validate ensures the Order was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// Snapshot exports the aggregate state for persistence.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:            o.id,
		Code:          o.code,
		CustomerID:    o.customerID,
		DriverID:      o.driverID,
		ServiceLevel:  o.serviceLevel,
		ShipFee:       o.shipFee,
		CodAmount:     o.codAmount,
		IsCodPaid:     o.isCodPaid,
		ShipPayer:     o.shipPayer,
		Recipient:     o.recipient,
		Note:          o.note,
		Status:        o.status,
		ProofRef:      o.proofRef,
		DeliveredNote: o.deliveredNote,
		FailedReason:  o.failedReason,
		GatewayTxnRef: o.gatewayTxnRef,
		CreatedAt:     o.createdAt,
		AssignedAt:    o.assignedAt,
		DeliveredAt:   o.deliveredAt,
		FailedAt:      o.failedAt,
		CodPaidAt:     o.codPaidAt,
		PaidAt:        o.paidAt,
	}
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Code() string {
	return o.code
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

func (o *Order) Driver() *kernel.UUID {
	return o.driverID
}

func (o *Order) ServiceLevel() ServiceLevel {
	return o.serviceLevel
}

func (o *Order) ShipFee() kernel.Money {
	return o.shipFee
}

func (o *Order) CodAmount() kernel.Money {
	return o.codAmount
}

func (o *Order) IsCodPaid() bool {
	return o.isCodPaid
}

func (o *Order) ShipPayer() ShipPayer {
	return o.shipPayer
}

func (o *Order) Recipient() Recipient {
	return o.recipient
}

func (o *Order) Note() string {
	return o.note
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) ProofRef() string {
	return o.proofRef
}

func (o *Order) DeliveredNote() string {
	return o.deliveredNote
}

func (o *Order) FailedReason() string {
	return o.failedReason
}

func (o *Order) GatewayTxnRef() string {
	return o.gatewayTxnRef
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) AssignedAt() *time.Time {
	return o.assignedAt
}

func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

func (o *Order) FailedAt() *time.Time {
	return o.failedAt
}

func (o *Order) CodPaidAt() *time.Time {
	return o.codPaidAt
}

func (o *Order) PaidAt() *time.Time {
	return o.paidAt
}

// IsDrivenBy reports whether id is the assigned courier.
func (o *Order) IsDrivenBy(id kernel.UUID) bool {
	return o.driverID != nil && o.driverID.IsEqual(id)
}

// AssignTo hands the order to a courier.
//
// This method enforces the following business rules:
//   - The courier ID must be valid
//   - The order must not already have a driver
//   - The status must allow the edge to Assigned (Pending or GatewayPaid)
//
// Returns a ConflictError when the order is already owned or in a wrong status.
func (o *Order) AssignTo(driverID kernel.UUID, now time.Time) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if o.driverID != nil {
		return errs.NewConflictError("order", "is already assigned")
	}
	if err := ValidateTransition(o.status, Assigned); err != nil {
		return err
	}

	o.driverID = &driverID
	o.status = Assigned
	setOnce(&o.assignedAt, now)
	return o.checkInvariants()
}

// StartShipping marks the parcel as picked up by the assigned courier.
// A nil actor skips the ownership check (dispatcher action).
func (o *Order) StartShipping(actor *kernel.UUID) error {
	if err := o.checkActor(actor); err != nil {
		return err
	}
	if err := ValidateTransition(o.status, Shipping); err != nil {
		return err
	}

	o.status = Shipping
	return o.checkInvariants()
}

// MarkDelivered completes the order and settles COD collected from the receiver.
//
// An Assigned order passes through Shipping in the same change, so a courier
// may report delivery without a separate pickup step.
//
// COD settlement rule:
//   - codAmount > 0 and shipPayer == receiver: isCodPaid = true, codPaidAt = now
//   - shipPayer == sender: COD stays unsettled
func (o *Order) MarkDelivered(actor *kernel.UUID, proofRef, note string, now time.Time) error {
	if err := o.checkActor(actor); err != nil {
		return err
	}
	if o.driverID == nil {
		return errs.NewConflictError("order", "has no driver")
	}

	from := o.status
	if from == Assigned {
		if err := ValidateTransition(Assigned, Shipping); err != nil {
			return err
		}
		from = Shipping
	}
	if err := ValidateTransition(from, Done); err != nil {
		return errs.NewConflictErrorWithCause("order", "cannot be delivered", err)
	}

	o.status = Done
	o.proofRef = proofRef
	o.deliveredNote = note
	setOnce(&o.deliveredAt, now)

	if o.codAmount.IsPositive() && o.shipPayer == Receiver {
		o.settleCod(now)
	}
	return o.checkInvariants()
}

// MarkFailed records a failed delivery attempt by the owning courier.
func (o *Order) MarkFailed(actor *kernel.UUID, reason string, now time.Time) error {
	if strings.TrimSpace(reason) == "" {
		return ErrReasonIsRequired
	}
	if err := o.checkActor(actor); err != nil {
		return err
	}
	if o.driverID == nil {
		return errs.NewConflictError("order", "has no driver")
	}
	if err := ValidateTransition(o.status, Failed); err != nil {
		return errs.NewConflictErrorWithCause("order", "cannot be failed", err)
	}

	o.fail(reason, now)
	return o.checkInvariants()
}

// MarkGatewayPaid records a verified successful prepayment.
func (o *Order) MarkGatewayPaid(txnRef string, now time.Time) error {
	if err := ValidateTransition(o.status, GatewayPaid); err != nil {
		return err
	}

	o.status = GatewayPaid
	o.gatewayTxnRef = txnRef
	setOnce(&o.paidAt, now)
	return o.checkInvariants()
}

// MarkPaymentFailed records a verified declined prepayment. No driver is needed.
func (o *Order) MarkPaymentFailed(resultCode string, now time.Time) error {
	if err := ValidateTransition(o.status, Failed); err != nil {
		return err
	}

	o.fail(fmt.Sprintf("payment declined by gateway (code %s)", resultCode), now)
	return o.checkInvariants()
}

// ConfirmCod settles COD by hand after delivery. Already settled orders are left unchanged.
func (o *Order) ConfirmCod(now time.Time) error {
	if o.status != Done {
		return errs.NewConflictErrorWithCause("order", "is not delivered", fmt.Errorf("status is %s", o.status))
	}
	if !o.codAmount.IsPositive() {
		return errs.NewConflictError("order", "has no COD amount to collect")
	}

	o.settleCod(now)
	return o.checkInvariants()
}

func (o *Order) settleCod(now time.Time) {
	if o.isCodPaid {
		return
	}
	o.isCodPaid = true
	setOnce(&o.codPaidAt, now)
}

func (o *Order) fail(reason string, now time.Time) {
	o.status = Failed
	o.failedReason = reason
	setOnce(&o.failedAt, now)
}

func (o *Order) checkActor(actor *kernel.UUID) error {
	if actor == nil {
		return nil
	}
	if !o.IsDrivenBy(*actor) {
		return errs.NewConflictError("order", "is assigned to another courier")
	}
	return nil
}

func (o *Order) checkInvariants() error {
	if err := o.status.ValidateCanHaveDriver(o.driverID != nil); err != nil {
		return err
	}
	if o.isCodPaid && (o.status != Done || !o.codAmount.IsPositive()) {
		return errs.NewValueIsInvalidErrorWithCause(
			"isCodPaid",
			fmt.Errorf("COD can only be paid on a delivered order with a COD amount, status is %s", o.status),
		)
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCode(code string) error {
	if !strings.HasPrefix(code, codePrefix) {
		return errs.NewValueIsInvalidErrorWithCause("code", fmt.Errorf("%q must start with %s", code, codePrefix))
	}
	o.code = code
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerId", err)
	}
	o.customerID = id
	return nil
}

func setOnce(field **time.Time, now time.Time) {
	if *field != nil {
		return
	}
	t := now.UTC()
	*field = &t
}
