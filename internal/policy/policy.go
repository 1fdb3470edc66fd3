package policy

import (
	"alcyxob/fitness-coach/internal/domain"
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind identifies a resource kind the engine can make decisions about.
type Kind string

const (
	KindUser         Kind = "user"
	KindSubscription Kind = "subscription"
	KindGoal         Kind = "goal"
	KindPlan         Kind = "plan"
	KindDailyLog     Kind = "daily_log"
	KindMetric       Kind = "metric"
)

// Operation identifies what the caller wants to do with the resource.
type Operation string

const (
	// Read operations, gated by Scope.
	OpList     Operation = "list"
	OpRetrieve Operation = "retrieve"

	// Write operations, gated by Authorize.
	OpCreate        Operation = "create"
	OpUpdate        Operation = "update"
	OpPartialUpdate Operation = "partial_update"
	OpDestroy       Operation = "destroy"

	// User-specific operations.
	OpRegister Operation = "register" // the only operation permitted without a principal
	OpOnboard  Operation = "onboard"
)

// Principal is the authenticated caller: a verified user ID plus role,
// supplied by the auth middleware. A nil *Principal means the request is
// unauthenticated.
type Principal struct {
	ID   primitive.ObjectID
	Role domain.Role
}

// Payload carries the parts of a write payload the engine needs to see.
// For plan creation, UserID is the client the plan targets; for
// onboarding, it is the user being onboarded.
type Payload struct {
	UserID primitive.ObjectID
}

// Decision is the outcome of an Authorize call. The engine never writes
// anything itself; callers apply the decision and, on create operations,
// the payload normalization documented on the service methods (subscription
// client and plan trainer are forced to the principal's ID).
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow returns a permitting decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a refusing decision with a caller-visible reason.
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Denial reasons surfaced to clients.
const (
	ReasonNotSubscribed    = "trainer not actively subscribed to client"
	ReasonNotAuthenticated = "authentication required"
	ReasonNotSelf          = "users may only onboard themselves"
)

// SubscriptionSource is the narrow view of subscription storage the engine
// needs. Implemented by the Mongo subscription repository.
type SubscriptionSource interface {
	// Exists reports whether any subscription row links the trainer and
	// client with exactly the given status. The comparison is an equality
	// match; no case folding.
	Exists(ctx context.Context, trainerID, clientID primitive.ObjectID, status string) (bool, error)

	// ClientIDsByTrainer returns the client IDs of every subscription the
	// trainer appears in, regardless of status.
	ClientIDsByTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]primitive.ObjectID, error)
}

// Engine decides, per principal, resource kind and operation, which rows
// may be read (Scope) and which writes may proceed (Authorize). It is
// stateless and safe for concurrent use; every decision is computed fresh
// against the SubscriptionSource, never cached.
type Engine struct {
	subs   SubscriptionSource
	scopes map[Kind]scopeRule
	writes map[writeKey]writeRule
}

type writeKey struct {
	kind Kind
	op   Operation
}

// scopeRule produces the query scope for a list/retrieve operation.
// The trainer branch for goals needs a subscription lookup, hence ctx/error.
type scopeRule func(ctx context.Context, e *Engine, p *Principal) (Scope, error)

// writeRule produces the decision for a write operation.
type writeRule func(ctx context.Context, e *Engine, p *Principal, payload *Payload) (Decision, error)

// NewEngine builds the rule table once. Any (kind, operation) pair absent
// from the table resolves to denial or the empty scope; there is no
// allow-by-fallthrough path.
func NewEngine(subs SubscriptionSource) *Engine {
	e := &Engine{subs: subs}

	e.scopes = map[Kind]scopeRule{
		KindSubscription: scopeSubscription,
		KindGoal:         scopeGoal,
		KindPlan:         scopePlan,
		// No narrowing rule is defined for these kinds; listing them is an
		// admin-oriented default inherited from the original API surface.
		KindUser:     scopeUnrestricted,
		KindDailyLog: scopeUnrestricted,
		KindMetric:   scopeUnrestricted,
	}

	e.writes = map[writeKey]writeRule{
		{KindUser, OpRegister}: allowAnyone,
		{KindUser, OpOnboard}:  authorizeOnboard,

		{KindSubscription, OpCreate}:        requireRole(domain.RoleClient),
		{KindSubscription, OpUpdate}:        requireRole(domain.RoleAdmin),
		{KindSubscription, OpPartialUpdate}: requireRole(domain.RoleAdmin),
		{KindSubscription, OpDestroy}:       requireRole(domain.RoleAdmin),

		{KindGoal, OpCreate}:        requireRole(domain.RoleClient),
		{KindGoal, OpUpdate}:        requireRole(domain.RoleClient),
		{KindGoal, OpPartialUpdate}: requireRole(domain.RoleClient),
		{KindGoal, OpDestroy}:       requireRole(domain.RoleClient),

		{KindPlan, OpCreate}:        authorizePlanCreate,
		{KindPlan, OpUpdate}:        requireRole(domain.RoleTrainer),
		{KindPlan, OpPartialUpdate}: requireRole(domain.RoleTrainer),
		{KindPlan, OpDestroy}:       requireRole(domain.RoleTrainer),

		// Daily logs and metrics carry no role restriction beyond
		// authentication in the original API. Kept explicit so the gap is
		// visible here instead of implied by a missing entry.
		{KindDailyLog, OpCreate}:        allowAuthenticated,
		{KindDailyLog, OpUpdate}:        allowAuthenticated,
		{KindDailyLog, OpPartialUpdate}: allowAuthenticated,
		{KindDailyLog, OpDestroy}:       allowAuthenticated,

		{KindMetric, OpCreate}:        allowAuthenticated,
		{KindMetric, OpUpdate}:        allowAuthenticated,
		{KindMetric, OpPartialUpdate}: allowAuthenticated,
		{KindMetric, OpDestroy}:       allowAuthenticated,
	}

	return e
}

// Scope returns the query scope a list/retrieve operation must apply
// before touching storage. It always produces a scope: unauthenticated
// callers and unknown roles get the empty scope, never the unrestricted
// one. An error is only possible when the goal/trainer branch fails to
// read subscriptions.
func (e *Engine) Scope(ctx context.Context, p *Principal, kind Kind, op Operation) (Scope, error) {
	if op != OpList && op != OpRetrieve {
		return Nothing(), fmt.Errorf("policy: %q is not a read operation", op)
	}
	if p == nil || !p.Role.Known() {
		return Nothing(), nil
	}
	rule, ok := e.scopes[kind]
	if !ok {
		return Nothing(), nil
	}
	return rule(ctx, e, p)
}

// Authorize decides whether the principal may perform the given write.
// Exactly one Authorize call is made per mutating request; services must
// not re-check or second-guess the decision.
func (e *Engine) Authorize(ctx context.Context, p *Principal, kind Kind, op Operation, payload *Payload) (Decision, error) {
	rule, ok := e.writes[writeKey{kind, op}]
	if !ok {
		return Deny(fmt.Sprintf("operation %q on %q is not permitted", op, kind)), nil
	}
	return rule(ctx, e, p, payload)
}

// --- Scope rules ---

func scopeUnrestricted(_ context.Context, _ *Engine, _ *Principal) (Scope, error) {
	return Unrestricted(), nil
}

func scopeSubscription(_ context.Context, _ *Engine, p *Principal) (Scope, error) {
	switch p.Role {
	case domain.RoleAdmin:
		return Unrestricted(), nil
	case domain.RoleTrainer:
		return TrainerScope(p.ID), nil
	case domain.RoleClient:
		return ClientScope(p.ID), nil
	}
	return Nothing(), nil
}

func scopeGoal(ctx context.Context, e *Engine, p *Principal) (Scope, error) {
	switch p.Role {
	case domain.RoleClient:
		return UserScope(p.ID), nil
	case domain.RoleTrainer:
		// Trainers see goals of every client they have a subscription row
		// with, in any status, not only active ones.
		clientIDs, err := e.subs.ClientIDsByTrainer(ctx, p.ID)
		if err != nil {
			return Nothing(), err
		}
		return UserInScope(clientIDs), nil
	}
	return Nothing(), nil
}

func scopePlan(_ context.Context, _ *Engine, p *Principal) (Scope, error) {
	switch p.Role {
	case domain.RoleClient:
		return UserScope(p.ID), nil
	case domain.RoleTrainer:
		return TrainerScope(p.ID), nil
	}
	return Nothing(), nil
}

// --- Write rules ---

func allowAnyone(_ context.Context, _ *Engine, _ *Principal, _ *Payload) (Decision, error) {
	return Allow(), nil
}

func allowAuthenticated(_ context.Context, _ *Engine, p *Principal, _ *Payload) (Decision, error) {
	if p == nil || !p.Role.Known() {
		return Deny(ReasonNotAuthenticated), nil
	}
	return Allow(), nil
}

func requireRole(role domain.Role) writeRule {
	return func(_ context.Context, _ *Engine, p *Principal, _ *Payload) (Decision, error) {
		if p == nil || !p.Role.Known() {
			return Deny(ReasonNotAuthenticated), nil
		}
		if p.Role != role {
			return Deny(fmt.Sprintf("requires %s role", role)), nil
		}
		return Allow(), nil
	}
}

func authorizeOnboard(_ context.Context, _ *Engine, p *Principal, payload *Payload) (Decision, error) {
	if p == nil || !p.Role.Known() {
		return Deny(ReasonNotAuthenticated), nil
	}
	// Onboarding is self-service only, regardless of role.
	if payload == nil || payload.UserID != p.ID {
		return Deny(ReasonNotSelf), nil
	}
	return Allow(), nil
}

func authorizePlanCreate(ctx context.Context, e *Engine, p *Principal, payload *Payload) (Decision, error) {
	if p == nil || !p.Role.Known() {
		return Deny(ReasonNotAuthenticated), nil
	}
	if p.Role != domain.RoleTrainer {
		return Deny(fmt.Sprintf("requires %s role", domain.RoleTrainer)), nil
	}
	if payload == nil || payload.UserID == primitive.NilObjectID {
		// A plan with no target client can never satisfy the gate.
		return Deny(ReasonNotSubscribed), nil
	}
	active, err := e.IsActivelySubscribed(ctx, p.ID, payload.UserID)
	if err != nil {
		return Decision{}, err
	}
	if !active {
		return Deny(ReasonNotSubscribed), nil
	}
	return Allow(), nil
}
