// MIT License
//
// Copyright (c) 2026 extreg contributors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package queue provides the lock-free-inspired MPSC queue that backs the
// dispatcher's job pipeline: any number of mutators push a job concurrently,
// and the single worker goroutine started by Dispatcher.process pops them in
// submission order.
package queue

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

// node is one link of the queue's singly linked list.
type node[T any] struct {
	value T
	next  *node[T]
}

// MpscQueue is a multi-producer, single-consumer FIFO queue.
// reference: https://concurrencyfreaks.blogspot.com/2014/04/multi-producer-single-consumer-queue.html
type MpscQueue[T any] struct {
	head   *node[T]
	tail   *node[T]
	length int64
	lock   sync.Mutex
}

// NewMpscQueue returns an empty MpscQueue.
func NewMpscQueue[T any]() *MpscQueue[T] {
	stub := new(node[T])
	return &MpscQueue[T]{head: stub, tail: stub}
}

// Push enqueues value at the head. Safe to call from any number of
// goroutines concurrently.
func (q *MpscQueue[T]) Push(value T) bool {
	newHead := &node[T]{value: value}
	prevHead := (*node[T])(atomic.SwapPointer((*unsafe.Pointer)(unsafe.Pointer(&q.head)), unsafe.Pointer(newHead)))
	atomic.StorePointer((*unsafe.Pointer)(unsafe.Pointer(&prevHead.next)), unsafe.Pointer(newHead))
	atomic.AddInt64(&q.length, 1)
	return true
}

// Pop dequeues the tail value, returning false if the queue is empty. Pop
// must be called from a single consumer goroutine only.
func (q *MpscQueue[T]) Pop() (T, bool) {
	var zero T
	next := (*node[T])(atomic.LoadPointer((*unsafe.Pointer)(unsafe.Pointer(&q.tail.next))))
	if next == nil {
		return zero, false
	}

	q.lock.Lock()
	q.tail = next
	q.lock.Unlock()
	value := next.value
	next.value = zero
	atomic.AddInt64(&q.length, -1)
	return value, true
}

// Len returns the current queue length.
func (q *MpscQueue[T]) Len() int64 {
	return atomic.LoadInt64(&q.length)
}

// IsEmpty reports whether the queue currently holds no items. Like Pop, it
// must be called from the single consumer goroutine.
func (q *MpscQueue[T]) IsEmpty() bool {
	q.lock.Lock()
	tail := q.tail
	q.lock.Unlock()
	next := (*node[T])(atomic.LoadPointer((*unsafe.Pointer)(unsafe.Pointer(&tail.next))))
	return next == nil
}
