// Package bencode implements encoding and decoding of bencoded values as
// defined in BEP 3.
//
// Parsing is driven by three caller-supplied capabilities: a Reader that
// yields input bytes, an Allocator that provides memory for parsed values and
// an io.Writer that receives serialized output. The codec keeps no state
// between calls.
package bencode

import (
	"bytes"
	"sort"
)

// Value is a bencoded value: a String, an Integer, a List or a Dict.
type Value interface {
	bencodeValue()
}

// String represents a bencode byte string.
type String []byte

// Integer represents a bencode integer.
type Integer int64

// List represents a bencode list.
type List []Value

// Entry is a single key/value pair of a Dict.
type Entry struct {
	Key   String
	Value Value
}

// Dict represents a bencode dictionary.
//
// Entries are kept in strictly ascending key order. Set maintains the order;
// code that builds a Dict by hand is responsible for it, since serialization
// writes entries in the order they are stored.
type Dict []Entry

func (String) bencodeValue()  {}
func (Integer) bencodeValue() {}
func (List) bencodeValue()    {}
func (Dict) bencodeValue()    {}

// NewList allocates the memory for a List.
func NewList() List {
	return make(List, 0)
}

// NewDict allocates the memory for a Dict.
func NewDict() Dict {
	return make(Dict, 0)
}

// search returns the index of the first entry whose key is >= key.
func (d Dict) search(key []byte) int {
	return sort.Search(len(d), func(i int) bool {
		return bytes.Compare(d[i].Key, key) >= 0
	})
}

// Get returns the value stored under key.
func (d Dict) Get(key string) (Value, bool) {
	i := d.search([]byte(key))
	if i < len(d) && string(d[i].Key) == key {
		return d[i].Value, true
	}
	return nil, false
}

// Set stores v under key, replacing any existing value.
func (d *Dict) Set(key string, v Value) {
	i := d.search([]byte(key))
	if i < len(*d) && string((*d)[i].Key) == key {
		(*d)[i].Value = v
		return
	}

	*d = append(*d, Entry{})
	copy((*d)[i+1:], (*d)[i:])
	(*d)[i] = Entry{Key: String(key), Value: v}
}

// Sorted reports whether the keys of d are unique and in ascending order.
func (d Dict) Sorted() bool {
	for i := 1; i < len(d); i++ {
		if bytes.Compare(d[i-1].Key, d[i].Key) >= 0 {
			return false
		}
	}
	return true
}
