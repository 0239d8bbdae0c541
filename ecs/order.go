package ecs

import "github.com/milk9111/danmaku/prefabs"

type orderRange struct {
	lo, hi, next int
}

func (r *orderRange) take() int {
	v := r.next
	r.next++
	if r.next > r.hi {
		r.next = r.lo
	}
	return v
}

// OrderAllocator hands out draw orders from one ring per size category so
// large bullets always sort below middle ones and middle below small.
type OrderAllocator struct {
	large, middle, small orderRange
}

func NewOrderAllocator() *OrderAllocator {
	return &OrderAllocator{
		large:  orderRange{lo: 1000, hi: 5999, next: 1000},
		middle: orderRange{lo: 6000, hi: 10999, next: 6000},
		small:  orderRange{lo: 11000, hi: 15999, next: 11000},
	}
}

// Next returns the next draw order for size. Unknown sizes get 0.
func (o *OrderAllocator) Next(size prefabs.SizeCategory) int {
	switch size {
	case prefabs.SizeLarge:
		return o.large.take()
	case prefabs.SizeMiddle:
		return o.middle.take()
	case prefabs.SizeSmall:
		return o.small.take()
	default:
		return 0
	}
}
