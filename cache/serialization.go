// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package cache

import (
	"encoding/binary"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/medquery/core"
	"github.com/poiesic/medquery/mapping"
)

const keyPrefix = "lookup:"

// lookupKey derives the cache key for a normalized query text: a fixed
// prefix plus the 8-byte content hash of the text.
func lookupKey(text string) []byte {
	key := make([]byte, len(keyPrefix)+8)
	copy(key, keyPrefix)
	binary.BigEndian.PutUint64(key[len(keyPrefix):], uint64(core.IDFromContent(text)))
	return key
}

// termsMUS serializes a term slice as a varint count followed by UID/Name
// string pairs.
var termsMUS = termsSerializer{}

type termsSerializer struct{}

func (termsSerializer) Marshal(terms []mapping.Term, bs []byte) (n int) {
	n = varint.PositiveInt.Marshal(len(terms), bs)
	for _, term := range terms {
		n += ord.String.Marshal(term.UID, bs[n:])
		n += ord.String.Marshal(term.Name, bs[n:])
	}
	return n
}

func (termsSerializer) Unmarshal(bs []byte) (terms []mapping.Term, n int, err error) {
	count, n, err := varint.PositiveInt.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	terms = make([]mapping.Term, 0, count)
	for i := 0; i < count; i++ {
		var (
			term mapping.Term
			n1   int
		)
		term.UID, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return nil, n, err
		}
		term.Name, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return nil, n, err
		}
		terms = append(terms, term)
	}
	return terms, n, nil
}

func (termsSerializer) Size(terms []mapping.Term) (size int) {
	size = varint.PositiveInt.Size(len(terms))
	for _, term := range terms {
		size += ord.String.Size(term.UID)
		size += ord.String.Size(term.Name)
	}
	return size
}

// MarshalTerms serializes a term slice to bytes.
func MarshalTerms(terms []mapping.Term) []byte {
	buf := make([]byte, termsMUS.Size(terms))
	termsMUS.Marshal(terms, buf)
	return buf
}

// UnmarshalTerms deserializes a term slice from bytes.
func UnmarshalTerms(data []byte) ([]mapping.Term, error) {
	terms, _, err := termsMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return terms, nil
}
