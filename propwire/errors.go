// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package propwire

import (
	"errors"
)

// ============================================================================
// Errors
// ============================================================================

// ErrUnknownType indicates a content hash that no registry in the chain knows.
var ErrUnknownType = errors.New("propwire: no type registered for hash")

// ErrDuplicateType indicates two different types registered under one hash.
var ErrDuplicateType = errors.New("propwire: duplicate type hash")

// ErrTypeMismatch indicates a decoded object that cannot be stored in the
// field or value it was decoded for.
var ErrTypeMismatch = errors.New("propwire: type mismatch")

// ErrZeroPropertySize indicates a versionable property whose size field is
// zero. Such a property can never be skipped and is rejected outright.
var ErrZeroPropertySize = errors.New("propwire: zero property size")

// ErrSizeMismatch indicates a versionable property or object that did not
// end exactly where its size field said it would.
var ErrSizeMismatch = errors.New("propwire: size mismatch")

// ErrCompressedLength indicates an inflated payload whose length differs
// from the length recorded in front of it.
var ErrCompressedLength = errors.New("propwire: compressed length mismatch")

// ErrBadMagic indicates data that does not start with the BiND file magic.
var ErrBadMagic = errors.New("propwire: invalid file magic")

// ErrMaxDepth indicates objects nested deeper than the configured limit.
var ErrMaxDepth = errors.New("propwire: maximum nesting depth exceeded")

// ErrUnknownEnum indicates an enum name or ordinal with no matching value.
var ErrUnknownEnum = errors.New("propwire: unknown enum value")

// ErrNilObject indicates a nil object where a value was required.
var ErrNilObject = errors.New("propwire: nil object")
