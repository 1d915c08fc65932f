// Package symbols holds the resolved-definitions table used during analysis.
package symbols

import (
	"hash/fnv"
	"math/bits"
)

// Persistent Hash Array Mapped Trie (HAMT) keyed by name.
// Every update returns a new map that shares structure with the old one, so
// a snapshot handed to a recursive analysis call never needs copying.

const (
	hamtBits = 5
	hamtSize = 1 << hamtBits // 32
	hamtMask = hamtSize - 1
)

// Map is an immutable string-keyed map.
type Map[V any] struct {
	root  *hamtNode[V]
	count int
}

type hamtNode[V any] struct {
	bitmap uint32 // which indices are populated
	nodes  []any  // hamtEntry[V] or *hamtNode[V]
}

type hamtEntry[V any] struct {
	hash  uint32
	key   string
	value V
}

// Empty returns a map with no entries.
func Empty[V any]() Map[V] {
	return Map[V]{}
}

func (m Map[V]) Len() int { return m.count }

// Get returns the value stored under key.
func (m Map[V]) Get(key string) (V, bool) {
	if m.root == nil {
		var zero V
		return zero, false
	}
	return m.root.get(hashKey(key), key, 0)
}

// Contains reports whether key is bound.
func (m Map[V]) Contains(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Put returns a new map with key bound to value.
func (m Map[V]) Put(key string, value V) Map[V] {
	root := m.root
	if root == nil {
		root = &hamtNode[V]{}
	}
	newRoot, added := root.put(hashKey(key), key, value, 0)

	count := m.count
	if added {
		count++
	}
	return Map[V]{root: newRoot, count: count}
}

// Remove returns a new map without key.
func (m Map[V]) Remove(key string) Map[V] {
	if m.root == nil {
		return m
	}
	newRoot, removed := m.root.remove(hashKey(key), key, 0)
	if !removed {
		return m
	}
	return Map[V]{root: newRoot, count: m.count - 1}
}

// Range calls f for every entry until f returns false.
func (m Map[V]) Range(f func(key string, value V) bool) {
	if m.root != nil {
		m.root.each(f)
	}
}

func hashKey(key string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(key))
	return h.Sum32()
}

func (n *hamtNode[V]) clone() *hamtNode[V] {
	c := &hamtNode[V]{bitmap: n.bitmap, nodes: make([]any, len(n.nodes))}
	copy(c.nodes, n.nodes)
	return c
}

func (n *hamtNode[V]) get(hash uint32, key string, shift uint) (V, bool) {
	var zero V
	if shift >= 32 {
		// collision bucket
		for _, node := range n.nodes {
			if e, ok := node.(hamtEntry[V]); ok && e.key == key {
				return e.value, true
			}
		}
		return zero, false
	}

	bit := uint32(1) << ((hash >> shift) & hamtMask)
	if n.bitmap&bit == 0 {
		return zero, false
	}

	switch v := n.nodes[bits.OnesCount32(n.bitmap&(bit-1))].(type) {
	case hamtEntry[V]:
		if v.hash == hash && v.key == key {
			return v.value, true
		}
	case *hamtNode[V]:
		return v.get(hash, key, shift+hamtBits)
	}
	return zero, false
}

func (n *hamtNode[V]) put(hash uint32, key string, value V, shift uint) (*hamtNode[V], bool) {
	entry := hamtEntry[V]{hash: hash, key: key, value: value}

	if shift >= 32 {
		// Hash bits exhausted: store entries side by side.
		c := n.clone()
		for i, node := range c.nodes {
			if e, ok := node.(hamtEntry[V]); ok && e.key == key {
				c.nodes[i] = entry
				return c, false
			}
		}
		c.nodes = append(c.nodes, entry)
		return c, true
	}

	bit := uint32(1) << ((hash >> shift) & hamtMask)
	pos := bits.OnesCount32(n.bitmap & (bit - 1))
	c := n.clone()

	if n.bitmap&bit == 0 {
		c.bitmap |= bit
		c.nodes = append(c.nodes, nil)
		copy(c.nodes[pos+1:], c.nodes[pos:])
		c.nodes[pos] = entry
		return c, true
	}

	switch v := c.nodes[pos].(type) {
	case hamtEntry[V]:
		if v.hash == hash && v.key == key {
			c.nodes[pos] = entry
			return c, false
		}
		// Push both entries one level down.
		child := &hamtNode[V]{}
		child, _ = child.put(v.hash, v.key, v.value, shift+hamtBits)
		child, _ = child.put(hash, key, value, shift+hamtBits)
		c.nodes[pos] = child
		return c, true
	case *hamtNode[V]:
		child, added := v.put(hash, key, value, shift+hamtBits)
		c.nodes[pos] = child
		return c, added
	}
	return c, false
}

func (n *hamtNode[V]) remove(hash uint32, key string, shift uint) (*hamtNode[V], bool) {
	if shift >= 32 {
		for i, node := range n.nodes {
			if e, ok := node.(hamtEntry[V]); ok && e.key == key {
				return n.without(i, n.bitmap), true
			}
		}
		return n, false
	}

	bit := uint32(1) << ((hash >> shift) & hamtMask)
	if n.bitmap&bit == 0 {
		return n, false
	}
	pos := bits.OnesCount32(n.bitmap & (bit - 1))

	switch v := n.nodes[pos].(type) {
	case hamtEntry[V]:
		if v.hash == hash && v.key == key {
			return n.without(pos, n.bitmap&^bit), true
		}
		return n, false
	case *hamtNode[V]:
		child, removed := v.remove(hash, key, shift+hamtBits)
		if !removed {
			return n, false
		}
		if len(child.nodes) == 0 {
			return n.without(pos, n.bitmap&^bit), true
		}
		c := n.clone()
		// A lone entry moves back up unless it sits in a collision bucket.
		if e, ok := child.nodes[0].(hamtEntry[V]); ok && len(child.nodes) == 1 && shift+hamtBits < 32 {
			c.nodes[pos] = e
		} else {
			c.nodes[pos] = child
		}
		return c, true
	}
	return n, false
}

func (n *hamtNode[V]) without(pos int, bitmap uint32) *hamtNode[V] {
	c := &hamtNode[V]{bitmap: bitmap, nodes: make([]any, len(n.nodes)-1)}
	copy(c.nodes[:pos], n.nodes[:pos])
	copy(c.nodes[pos:], n.nodes[pos+1:])
	return c
}

func (n *hamtNode[V]) each(f func(string, V) bool) bool {
	for _, node := range n.nodes {
		switch v := node.(type) {
		case hamtEntry[V]:
			if !f(v.key, v.value) {
				return false
			}
		case *hamtNode[V]:
			if !v.each(f) {
				return false
			}
		}
	}
	return true
}
