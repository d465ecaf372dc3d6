package settings

// Swapper is the reordering primitive of a Store.
type Swapper interface {
	SwapOrders(i, j int)
	Len() int
}

// MoveUp moves row i one position towards the front.
func MoveUp(s Swapper, i int) {
	if i > 0 && i < s.Len() {
		s.SwapOrders(i, i-1)
	}
}

// MoveDown moves row i one position towards the back.
func MoveDown(s Swapper, i int) {
	if i >= 0 && i < s.Len()-1 {
		s.SwapOrders(i, i+1)
	}
}

// MoveToTop moves row i to position 0 with adjacent swaps, keeping the
// relative order of every other row.
func MoveToTop(s Swapper, i int) {
	if i < 0 || i >= s.Len() {
		return
	}
	for ; i > 0; i-- {
		s.SwapOrders(i, i-1)
	}
}

// MoveToBottom moves row i to the last position with adjacent swaps.
func MoveToBottom(s Swapper, i int) {
	n := s.Len()
	if i < 0 || i >= n {
		return
	}
	for ; i < n-1; i++ {
		s.SwapOrders(i, i+1)
	}
}
