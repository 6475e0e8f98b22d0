package bspvis

// Link is the intrusive hook embedded by types stored in a List.
type Link[T any] struct {
	next *T
	prev *T
}

// Linked reports whether the node is currently a member of a list.
func (l *Link[T]) Linked() bool { return l.prev != nil && l.next != nil }

// element is satisfied by pointer types embedding a Link.
type element[T any] interface {
	*T
	linkNode() *Link[T]
}

// List is an intrusive circular doubly-linked list over pool-allocated
// nodes. A node can only be a member of one list at a time; violating that
// is a programming error and panics.
type List[T any, PT element[T]] struct {
	head  *T // head.prev is the tail, and vice-versa
	count int
}

func (l *List[T, PT]) link(node *T) *Link[T] {
	return PT(node).linkNode()
}

// PushFront inserts node at the head of the list. Constant time.
func (l *List[T, PT]) PushFront(node *T) {
	l.PushBack(node)
	l.head = node
}

// PushBack appends node at the tail of the list. Constant time.
func (l *List[T, PT]) PushBack(node *T) {
	if node == nil {
		panic("bspvis: list push of nil node")
	}
	if l.link(node).Linked() {
		panic("bspvis: node is already a member of a list")
	}

	if l.head == nil {
		l.head = node
		l.link(node).prev = node
		l.link(node).next = node
	} else {
		tail := l.link(l.head).prev
		l.link(node).prev = tail
		l.link(node).next = l.head
		l.link(tail).next = node
		l.link(l.head).prev = node
	}
	l.count++
}

// PopFront removes and returns the head node, or nil if the list is empty.
func (l *List[T, PT]) PopFront() *T {
	if l.head == nil {
		return nil
	}

	node := l.head
	l.Remove(node)

	return node
}

// PopBack removes and returns the tail node, or nil if the list is empty.
func (l *List[T, PT]) PopBack() *T {
	if l.head == nil {
		return nil
	}

	node := l.link(l.head).prev
	l.Remove(node)

	return node
}

// Remove unlinks node from anywhere in the list. The node is not freed.
func (l *List[T, PT]) Remove(node *T) {
	if node == nil || !l.link(node).Linked() {
		panic("bspvis: list remove of unlinked node")
	}
	if l.count == 0 {
		panic("bspvis: list remove on empty list")
	}

	next := l.link(node).next
	prev := l.link(node).prev

	if l.count == 1 {
		l.head = nil
	} else {
		l.link(prev).next = next
		l.link(next).prev = prev
		if node == l.head {
			l.head = next
		}
	}

	l.link(node).next = nil
	l.link(node).prev = nil
	l.count--
}

// Clear unlinks every node without freeing anything.
func (l *List[T, PT]) Clear() {
	node := l.head
	for i := 0; i < l.count; i++ {
		next := l.link(node).next
		l.link(node).next = nil
		l.link(node).prev = nil
		node = next
	}

	l.head = nil
	l.count = 0
}

// First returns the head node, or nil if the list is empty.
func (l *List[T, PT]) First() *T { return l.head }

// Last returns the tail node, or nil if the list is empty.
func (l *List[T, PT]) Last() *T {
	if l.head == nil {
		return nil
	}
	return l.link(l.head).prev
}

// Next returns the node after n, or nil once the list wraps around.
// Iterate with: for n := l.First(); n != nil; n = l.Next(n) { ... }
func (l *List[T, PT]) Next(n *T) *T {
	next := l.link(n).next
	if next == l.head {
		return nil
	}
	return next
}

// Empty reports whether the list has no nodes.
func (l *List[T, PT]) Empty() bool { return l.count == 0 }

// Len returns the number of nodes in the list.
func (l *List[T, PT]) Len() int { return l.count }
