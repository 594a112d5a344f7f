package models

import "slices"

// DeliveryStatus is the lifecycle state of an order.
type DeliveryStatus string

const (
	StatusNew       DeliveryStatus = "new"
	StatusAccepted  DeliveryStatus = "accepted"
	StatusEnRoute   DeliveryStatus = "enroute"
	StatusOnWay     DeliveryStatus = "onway"
	StatusDelivered DeliveryStatus = "delivered"
	StatusFailed    DeliveryStatus = "failed"
	StatusCancelled DeliveryStatus = "cancelled"
)

// orderTransitions is the order state flow. enroute and onway are the same
// in-transit stage; older rider builds write onway.
var orderTransitions = map[DeliveryStatus][]DeliveryStatus{
	StatusNew:      {StatusAccepted, StatusFailed, StatusCancelled},
	StatusAccepted: {StatusEnRoute, StatusOnWay, StatusFailed, StatusCancelled},
	StatusEnRoute:  {StatusDelivered, StatusFailed, StatusCancelled},
	StatusOnWay:    {StatusDelivered, StatusFailed, StatusCancelled},
}

var orderTransitionSet = buildTransitionSet(orderTransitions)

// CanTransition reports whether an order may move from one status to another.
// Terminal statuses have no outgoing edges.
func CanTransition(from, to DeliveryStatus) bool {
	return hasEdge(orderTransitionSet, from, to)
}

// SourcesFor lists every status from which `to` is reachable in one step.
// Repositories use it to build compare-and-transition updates.
func SourcesFor(to DeliveryStatus) []DeliveryStatus {
	return sources(orderTransitions, to)
}

// Valid reports whether s is a known status.
func (s DeliveryStatus) Valid() bool {
	switch s {
	case StatusNew, StatusAccepted, StatusEnRoute, StatusOnWay, StatusDelivered, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s DeliveryStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusFailed || s == StatusCancelled
}

// InTransit reports whether the rider has left the shop with the parcel.
func (s DeliveryStatus) InTransit() bool {
	return s == StatusEnRoute || s == StatusOnWay
}

// Active reports whether the order is held by a rider and not yet finished.
func (s DeliveryStatus) Active() bool {
	return s == StatusAccepted || s.InTransit()
}

// ReturnStatus is the state of a return request.
type ReturnStatus string

const (
	ReturnPending         ReturnStatus = "pending"
	ReturnAccepted        ReturnStatus = "accepted"
	ReturnPickedUp        ReturnStatus = "picked_up"
	ReturnDeliveredToShop ReturnStatus = "delivered_to_shop"
	ReturnCompleted       ReturnStatus = "completed"
	ReturnRejected        ReturnStatus = "rejected"
)

var returnTransitions = map[ReturnStatus][]ReturnStatus{
	ReturnPending:         {ReturnAccepted, ReturnRejected},
	ReturnAccepted:        {ReturnPickedUp, ReturnCompleted, ReturnRejected},
	ReturnPickedUp:        {ReturnDeliveredToShop, ReturnCompleted, ReturnRejected},
	ReturnDeliveredToShop: {ReturnCompleted, ReturnRejected},
}

var returnTransitionSet = buildTransitionSet(returnTransitions)

// CanTransitionReturn reports whether a return may move from one status to another.
func CanTransitionReturn(from, to ReturnStatus) bool {
	return hasEdge(returnTransitionSet, from, to)
}

// ReturnSourcesFor lists every return status from which `to` is reachable in one step.
func ReturnSourcesFor(to ReturnStatus) []ReturnStatus {
	return sources(returnTransitions, to)
}

// Valid reports whether s is a known return status.
func (s ReturnStatus) Valid() bool {
	switch s {
	case ReturnPending, ReturnAccepted, ReturnPickedUp, ReturnDeliveredToShop, ReturnCompleted, ReturnRejected:
		return true
	}
	return false
}

// Terminal reports whether the return is finished.
func (s ReturnStatus) Terminal() bool {
	return s == ReturnCompleted || s == ReturnRejected
}

// Refundable reports whether a refund may be recorded in this state.
func (s ReturnStatus) Refundable() bool {
	return CanTransitionReturn(s, ReturnCompleted)
}

func buildTransitionSet[S comparable](transitions map[S][]S) map[S]map[S]struct{} {
	set := make(map[S]map[S]struct{}, len(transitions))
	for from, tos := range transitions {
		next := make(map[S]struct{}, len(tos))
		for _, to := range tos {
			next[to] = struct{}{}
		}
		set[from] = next
	}
	return set
}

func hasEdge[S comparable](set map[S]map[S]struct{}, from, to S) bool {
	next, ok := set[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}

func sources[S ~string](transitions map[S][]S, to S) []S {
	var out []S
	for from, tos := range transitions {
		for _, t := range tos {
			if t == to {
				out = append(out, from)
				break
			}
		}
	}
	// map iteration order is random; keep SQL text stable
	slices.Sort(out)
	return out
}
