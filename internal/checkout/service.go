// Package checkout resolves what is being bought, prices it, and drives the
// three payment phases: create the gateway order, let the widget collect
// payment, then verify or report the failure.
package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/innovativehub/storefront/internal/catalog"
	"github.com/innovativehub/storefront/internal/storage"
	rules "github.com/innovativehub/storefront/pkg/checkout"
	"github.com/innovativehub/storefront/pkg/config"
	"github.com/innovativehub/storefront/pkg/enums"
	pkgerrors "github.com/innovativehub/storefront/pkg/errors"
	"github.com/innovativehub/storefront/pkg/logger"
	"github.com/innovativehub/storefront/pkg/metrics"
	"github.com/innovativehub/storefront/pkg/pricing"
	"github.com/innovativehub/storefront/pkg/types"
	"github.com/innovativehub/storefront/pkg/validation"
)

const (
	reasonDismissed     = "Checkout dismissed"
	reasonPaymentFailed = "Payment failed"

	defaultFlightTimeout  = 15 * time.Minute
	defaultReportTimeout  = 10 * time.Second
	defaultPaymentTimeout = 30 * time.Second
)

// Metric phase labels.
const (
	phaseCreated      = "created"
	phaseRejected     = "rejected"
	phaseVerified     = "verified"
	phaseVerifyFailed = "verify_failed"
	phaseDismissed    = "dismissed"
	phaseFailed       = "failed"
)

type paymentsClient interface {
	StateCharges(ctx context.Context, state string) (types.StateCharges, error)
	CreatePaymentOrder(ctx context.Context, req types.PaymentOrderRequest) (types.GatewayOrder, error)
	VerifyPayment(ctx context.Context, req types.VerifyPaymentRequest) (types.VerifyResult, error)
	ReportPaymentFailure(ctx context.Context, reason string) error
}

type cartSource interface {
	Items() []types.CartItem
	Clear(ctx context.Context) error
}

type userSource interface {
	User() (types.User, bool)
}

// PaymentWidget collects payment for a created checkout. It blocks until
// the shopper pays, dismisses the widget, or the payment fails.
type PaymentWidget interface {
	Collect(ctx context.Context, cfg WidgetConfig) (Outcome, error)
}

// Params bundles the dependencies of an Orchestrator.
type Params struct {
	Payments paymentsClient
	Cart     cartSource
	Users    userSource
	BuyNow   *storage.ValueSlot[types.CartItem]
	Summary  *storage.ValueSlot[OrderSummary]
	Config   config.CheckoutConfig
	Logger   *logger.Logger
	Metrics  *metrics.Metrics

	Now   func() time.Time
	NewID func() string
	// Dispatch runs fire-and-forget work. Defaults to a new goroutine.
	Dispatch func(func())
}

// Orchestrator drives checkout for one browsing session.
type Orchestrator struct {
	payments paymentsClient
	cart     cartSource
	users    userSource
	buyNow   *storage.ValueSlot[types.CartItem]
	summary  *storage.ValueSlot[OrderSummary]
	logg     *logger.Logger
	metrics  *metrics.Metrics

	merchantName   string
	description    string
	currency       string
	flightTimeout  time.Duration
	reportTimeout  time.Duration
	paymentTimeout time.Duration

	now      func() time.Time
	newID    func() string
	dispatch func(func())

	mu      sync.Mutex
	current *flight
}

func NewOrchestrator(params Params) (*Orchestrator, error) {
	if params.Payments == nil {
		return nil, fmt.Errorf("payments client is required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user source is required")
	}
	if params.BuyNow == nil || params.Summary == nil {
		return nil, fmt.Errorf("buy-now and summary slots are required")
	}

	o := &Orchestrator{
		payments:       params.Payments,
		cart:           params.Cart,
		users:          params.Users,
		buyNow:         params.BuyNow,
		summary:        params.Summary,
		logg:           params.Logger,
		metrics:        params.Metrics,
		merchantName:   params.Config.MerchantName,
		description:    params.Config.Description,
		currency:       params.Config.Currency,
		flightTimeout:  params.Config.FlightTimeout,
		reportTimeout:  params.Config.ReportTimeout,
		paymentTimeout: params.Config.PaymentTimeout,
		now:            params.Now,
		newID:          params.NewID,
		dispatch:       params.Dispatch,
	}
	if o.flightTimeout <= 0 {
		o.flightTimeout = defaultFlightTimeout
	}
	if o.reportTimeout <= 0 {
		o.reportTimeout = defaultReportTimeout
	}
	if o.paymentTimeout <= 0 {
		o.paymentTimeout = defaultPaymentTimeout
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.newID == nil {
		o.newID = uuid.NewString
	}
	if o.dispatch == nil {
		o.dispatch = func(fn func()) { go fn() }
	}
	return o, nil
}

// NewSummarySlot builds the ephemeral slot holding the last order summary.
func NewSummarySlot(kv storage.KV, logg *logger.Logger) *storage.ValueSlot[OrderSummary] {
	return storage.NewValueSlot(kv, storage.SlotLastOrderSummary, logg, func(s OrderSummary) bool {
		return !s.PlacedAt.IsZero()
	})
}

// Resolve returns the lines checkout operates on. A pending buy-now item
// wins over the cart.
func (o *Orchestrator) Resolve(ctx context.Context) (Source, []types.CartItem) {
	if item, ok := o.buyNow.Load(ctx); ok {
		return SourceBuyNow, []types.CartItem{item}
	}
	return SourceCart, o.cart.Items()
}

// Quote prices the current checkout. Shipping charges come from the
// selected address's state; a failed lookup prices shipping at zero.
func (o *Orchestrator) Quote(ctx context.Context, req Request) (Quote, error) {
	method, err := enums.ParseDeliveryMethod(string(req.DeliveryMethod))
	if err != nil {
		return Quote{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery method")
	}
	source, items := o.Resolve(ctx)
	if len(items) == 0 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeNothingToCheckout, "nothing to checkout")
	}

	state := ""
	if user, ok := o.users.User(); ok {
		if addr, found := pickAddress(user, req.AddressID); found {
			state = addr.State
		}
	}
	return o.price(ctx, source, items, method, state), nil
}

// Begin runs the create phase. It claims the checkout guard, validates
// locally, and asks the backend for a gateway order. Any failure releases
// the guard.
func (o *Orchestrator) Begin(ctx context.Context, req Request) (Pending, error) {
	f, err := o.acquire(ctx)
	if err != nil {
		return Pending{}, err
	}
	pending, err := o.begin(ctx, f, req)
	if err != nil {
		o.release(f)
		return Pending{}, err
	}
	return pending, nil
}

func (o *Orchestrator) begin(ctx context.Context, f *flight, req Request) (Pending, error) {
	ctx = o.logg.WithField(ctx, "pending_id", f.id)

	user, ok := o.users.User()
	if !ok {
		return Pending{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "Please log in to place an order")
	}
	source, items := o.Resolve(ctx)
	if len(items) == 0 {
		return Pending{}, pkgerrors.New(pkgerrors.CodeNothingToCheckout, "nothing to checkout")
	}
	addr, found := pickAddress(user, req.AddressID)
	if !found {
		return Pending{}, pkgerrors.New(pkgerrors.CodeValidation, "Please select a delivery address")
	}
	method, err := enums.ParseDeliveryMethod(string(req.DeliveryMethod))
	if err != nil {
		return Pending{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery method")
	}

	if err := preflight(items, method, req); err != nil {
		return Pending{}, err
	}

	orderReq := buildOrderRequest(items, addr, method, req)
	quote := o.price(ctx, source, items, method, addr.State)

	createCtx, cancel := o.detach(ctx)
	defer cancel()
	gateway, err := o.payments.CreatePaymentOrder(createCtx, orderReq)
	if err != nil {
		o.metrics.CheckoutPhase(phaseRejected)
		o.logg.Warn(ctx, fmt.Sprintf("payment order rejected: %v", err))
		if pkgerrors.As(err) != nil {
			return Pending{}, err
		}
		return Pending{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "could not create payment order")
	}

	o.mu.Lock()
	f.source = source
	f.request = orderReq
	f.quote = quote
	f.gatewayRef = gateway.OrderID
	o.mu.Unlock()

	o.metrics.CheckoutPhase(phaseCreated)
	o.logg.Info(o.logg.WithField(ctx, "gateway_order_id", gateway.OrderID), "payment order created")

	currency := gateway.Currency
	if currency == "" {
		currency = o.currency
	}
	return Pending{
		ID: f.id,
		Widget: WidgetConfig{
			Key:         gateway.KeyID,
			Amount:      gateway.Amount,
			Currency:    currency,
			OrderID:     gateway.OrderID,
			Name:        o.merchantName,
			Description: o.description,
		},
		Quote:          quote,
		DeliveryCharge: gateway.DeliveryCharge,
		TotalAmount:    gateway.TotalAmount,
		ExpiresAt:      f.deadline,
	}, nil
}

// Complete resolves a pending checkout with the widget's outcome.
//
// A verified payment clears whichever source was bought (buy-now item or
// cart, never both) and stashes the order summary. Dismissals and failures
// are reported to the backend in the background and leave everything as it
// was so the shopper can retry.
func (o *Orchestrator) Complete(ctx context.Context, pendingID string, outcome Outcome) (Result, error) {
	f, err := o.claim(pendingID)
	if err != nil {
		return Result{}, err
	}
	ctx = o.logg.WithField(ctx, "pending_id", f.id)

	switch outcome.Status {
	case OutcomeSucceeded:
		if err := validation.Struct(outcome.Proof); err != nil {
			o.unclaim(f)
			return Result{}, err
		}
		if outcome.Proof.RazorpayOrderID != f.gatewayRef {
			o.unclaim(f)
			return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "payment proof does not match the pending order")
		}
		defer o.release(f)
		return o.verify(ctx, f, outcome.Proof)
	case OutcomeDismissed:
		defer o.release(f)
		o.metrics.CheckoutPhase(phaseDismissed)
		o.reportFailure(ctx, reasonDismissed)
		return Result{Status: OutcomeDismissed}, nil
	case OutcomeFailed:
		defer o.release(f)
		reason := strings.TrimSpace(outcome.Reason)
		if reason == "" {
			reason = reasonPaymentFailed
		}
		o.metrics.CheckoutPhase(phaseFailed)
		o.reportFailure(ctx, reason)
		return Result{Status: OutcomeFailed}, nil
	default:
		o.unclaim(f)
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown payment outcome %q", outcome.Status))
	}
}

// PlaceOrder runs all three phases, using widget for the collect phase.
func (o *Orchestrator) PlaceOrder(ctx context.Context, req Request, widget PaymentWidget) (Result, error) {
	pending, err := o.Begin(ctx, req)
	if err != nil {
		return Result{}, err
	}
	outcome, err := widget.Collect(ctx, pending.Widget)
	if err != nil {
		outcome = Outcome{Status: OutcomeFailed, Reason: err.Error()}
	}
	return o.Complete(ctx, pending.ID, outcome)
}

// LastSummary returns the summary of the most recent verified order.
func (o *Orchestrator) LastSummary(ctx context.Context) (OrderSummary, bool) {
	return o.summary.Load(ctx)
}

// verify runs detached from the caller: once the backend has the proof the
// order may be paid, so the cart and summary must follow even if the
// shopper's request is gone.
func (o *Orchestrator) verify(ctx context.Context, f *flight, proof types.PaymentProof) (Result, error) {
	ctx, cancel := o.detach(ctx)
	defer cancel()
	result, err := o.payments.VerifyPayment(ctx, types.VerifyPaymentRequest{
		PaymentProof:        proof,
		PaymentOrderRequest: f.request,
	})
	if err != nil {
		o.metrics.CheckoutPhase(phaseVerifyFailed)
		o.logg.Error(ctx, "payment verification failed", err)
		return Result{}, err
	}
	o.metrics.CheckoutPhase(phaseVerified)

	switch f.source {
	case SourceBuyNow:
		if err := o.buyNow.Clear(ctx); err != nil {
			o.logg.Error(ctx, "clear buy-now item after order", err)
		}
	default:
		if err := o.cart.Clear(ctx); err != nil {
			o.logg.Error(ctx, "clear cart after order", err)
		}
	}

	summary := OrderSummary{
		OrderID:           result.OrderID,
		Subtotal:          f.quote.Breakdown.Subtotal,
		GSTAmount:         f.quote.Breakdown.GSTAmount,
		Shipping:          f.quote.ShippingCharge,
		Total:             f.quote.TotalWithShipping,
		DeliveryMethod:    f.quote.DeliveryMethod,
		RedirectToContact: f.quote.RedirectToContact,
		PlacedAt:          o.now().UTC(),
	}
	if err := o.summary.Save(ctx, summary); err != nil {
		o.logg.Error(ctx, "stash order summary", err)
	}
	o.logg.Info(o.logg.WithField(ctx, "order_id", result.OrderID), "payment verified")
	return Result{Status: OutcomeSucceeded, Summary: &summary}, nil
}

// detach keeps ctx's values but not its cancellation, bounded by the
// payment timeout.
func (o *Orchestrator) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), o.paymentTimeout)
}

// reportFailure tells the backend in the background. The report outlives
// the caller's context but not the report timeout.
func (o *Orchestrator) reportFailure(ctx context.Context, reason string) {
	detached := context.WithoutCancel(ctx)
	o.dispatch(func() {
		reportCtx, cancel := context.WithTimeout(detached, o.reportTimeout)
		defer cancel()
		if err := o.payments.ReportPaymentFailure(reportCtx, reason); err != nil {
			o.logg.Warn(reportCtx, fmt.Sprintf("payment failure report not delivered: %v", err))
		}
	})
}

func (o *Orchestrator) price(ctx context.Context, source Source, items []types.CartItem, method enums.DeliveryMethod, state string) Quote {
	lines := make([]Line, 0, len(items))
	redirect := false
	for _, item := range items {
		lines = append(lines, Line{Product: item.Product, Quantity: item.Quantity, LineTotal: pricing.Round2(item.LineTotal())})
		if catalog.IsContactUs3DProduct(item.Product) {
			redirect = true
		}
	}

	charges := types.StateCharges{State: state, DefaultShippingCharge: decimal.Zero, ManualBaseCharge: decimal.Zero}
	if strings.TrimSpace(state) != "" {
		fetched, err := o.payments.StateCharges(ctx, state)
		if err != nil {
			o.logg.Warn(o.logg.WithField(ctx, "state", state), fmt.Sprintf("state charges unavailable, using zero: %v", err))
		} else {
			charges = fetched
		}
	}

	breakdown := pricing.GSTBreakdown(pricing.Subtotal(items))
	shipping := decimal.Zero
	if method == enums.DeliveryMethodDefault {
		shipping = pricing.Round2(charges.DefaultShippingCharge)
	}
	return Quote{
		Source:                source,
		Lines:                 lines,
		TotalItems:            pricing.TotalQuantity(items),
		Breakdown:             breakdown,
		State:                 state,
		DefaultShippingCharge: charges.DefaultShippingCharge,
		ManualBaseCharge:      charges.ManualBaseCharge,
		DeliveryMethod:        method,
		ShippingCharge:        shipping,
		TotalWithShipping:     pricing.WithShipping(breakdown, shipping),
		RedirectToContact:     redirect,
	}
}

func preflight(items []types.CartItem, method enums.DeliveryMethod, req Request) error {
	stock := make([]rules.StockValidationInput, 0, len(items))
	for _, item := range items {
		stock = append(stock, rules.StockValidationInput{
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			Stock:       item.Product.Stock,
			Quantity:    item.Quantity,
		})
	}
	if err := rules.ValidateStock(stock); err != nil {
		return err
	}
	return rules.ValidateDelivery(rules.DeliveryValidationInput{
		Method:    method,
		Agreement: req.DeliveryAgreement,
		Mobile:    req.DeliveryMobileNumber,
	})
}

func buildOrderRequest(items []types.CartItem, addr types.Address, method enums.DeliveryMethod, req Request) types.PaymentOrderRequest {
	lines := make([]types.OrderLineRequest, 0, len(items))
	for _, item := range items {
		lines = append(lines, types.OrderLineRequest{ProductID: item.Product.ID, Qty: item.Quantity})
	}
	out := types.PaymentOrderRequest{
		Products:       lines,
		Address:        addr,
		DeliveryMethod: method,
	}
	if method == enums.DeliveryMethodManual {
		agreement := req.DeliveryAgreement
		out.DeliveryAgreement = &agreement
		out.DeliveryMobileNumber = strings.TrimSpace(req.DeliveryMobileNumber)
	}
	return out
}

func pickAddress(user types.User, addressID string) (types.Address, bool) {
	if id := strings.TrimSpace(addressID); id != "" {
		return user.AddressByID(id)
	}
	return user.DefaultAddress()
}
