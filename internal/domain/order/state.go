package order

// State implements the state pattern for the order-building lifecycle.
type State interface {
	Status() Status
	// OnEdit is consulted before any cart, ticket or payment mutation.
	OnEdit() (State, error)
	// OnReadiness is evaluated after every mutation; ready means a payment method is
	// selected and the cart has at least one line.
	OnReadiness(ready bool) State
	OnFinalize() (State, error)
}

func initialState() State { return buildingState{} }

type buildingState struct{}

func (buildingState) Status() Status { return StatusBuilding }

func (buildingState) OnEdit() (State, error) { return buildingState{}, nil }

func (buildingState) OnReadiness(ready bool) State {
	if ready {
		return awaitingPaymentState{}
	}
	return buildingState{}
}

func (buildingState) OnFinalize() (State, error) {
	return nil, ErrInvalidStateTransition
}

// awaitingPaymentState does not fall back to building when the cart or payment
// selection changes afterwards.
type awaitingPaymentState struct{}

func (awaitingPaymentState) Status() Status { return StatusAwaitingPayment }

func (awaitingPaymentState) OnEdit() (State, error) { return awaitingPaymentState{}, nil }

func (awaitingPaymentState) OnReadiness(bool) State { return awaitingPaymentState{} }

func (awaitingPaymentState) OnFinalize() (State, error) {
	return finalizedState{}, nil
}

type finalizedState struct{}

func (finalizedState) Status() Status { return StatusFinalized }

func (finalizedState) OnEdit() (State, error) {
	return nil, ErrOrderFinalized
}

func (finalizedState) OnReadiness(bool) State { return finalizedState{} }

func (finalizedState) OnFinalize() (State, error) {
	return nil, ErrAlreadyFinalized
}
