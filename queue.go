package main

import (
	"container/heap"
)

// queueEntry is one open search node. The same cell may be queued more than once.
type queueEntry struct {
	cell     Cell
	priority float64 // estimated total cost through cell
	seq      uint64  // insertion order, breaks priority ties FIFO
}

// entryHeap implements heap.Interface ordered by ascending priority.
type entryHeap []*queueEntry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x interface{}) {
	*h = append(*h, x.(*queueEntry))
}

func (h *entryHeap) Pop() interface{} {
	old := *h
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return entry
}

// frontierQueue is the min-priority open list of a single search.
type frontierQueue struct {
	entries entryHeap
	next    uint64
}

func newFrontierQueue() *frontierQueue {
	q := &frontierQueue{}
	heap.Init(&q.entries)
	return q
}

// Put queues c with the given priority. Duplicates are kept.
func (q *frontierQueue) Put(c Cell, priority float64) {
	heap.Push(&q.entries, &queueEntry{cell: c, priority: priority, seq: q.next})
	q.next++
}

// Get removes and returns the lowest-priority cell. It panics on an empty queue.
func (q *frontierQueue) Get() Cell {
	return heap.Pop(&q.entries).(*queueEntry).cell
}

func (q *frontierQueue) Empty() bool { return q.entries.Len() == 0 }

func (q *frontierQueue) Len() int { return q.entries.Len() }
