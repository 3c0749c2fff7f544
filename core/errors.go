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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidMatch indicates a ConceptMatch failed validation.
	ErrInvalidMatch = errors.New("invalid concept match")

	// ErrEmptyConcept indicates the Concept field is empty.
	ErrEmptyConcept = errors.New("concept name cannot be empty")

	// ErrInvalidOrigin indicates an unknown MatchOrigin value.
	ErrInvalidOrigin = errors.New("invalid match origin")
)
