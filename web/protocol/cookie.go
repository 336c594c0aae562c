/*
 * Copyright 2024 caiflower Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package protocol

import (
	"net/http"
	"strings"
	"time"
)

type SameSite int

const (
	SameSiteUndefined SameSite = iota
	SameSiteNone
	SameSiteLax
	SameSiteStrict
)

func (s SameSite) String() string {
	switch s {
	case SameSiteNone:
		return "None"
	case SameSiteLax:
		return "Lax"
	case SameSiteStrict:
		return "Strict"
	default:
		return ""
	}
}

// LegacyCookieSuffix names the duplicate cookie emitted alongside a
// SameSite=None cookie for browsers that swallow SameSite=None.
const LegacyCookieSuffix = "-legacy"

type Cookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Expires  time.Time
	Secure   bool
	HttpOnly bool
	SameSite SameSite
}

// HeaderValue renders the Set-Cookie header value.
func (c *Cookie) HeaderValue() string {
	var sb strings.Builder
	sb.WriteString(c.Name)
	sb.WriteString("=")
	sb.WriteString(c.Value)

	if !c.Expires.IsZero() {
		sb.WriteString("; expires=")
		sb.WriteString(c.Expires.UTC().Format(http.TimeFormat))
	}
	if c.Domain != "" {
		sb.WriteString("; domain=")
		sb.WriteString(c.Domain)
	}
	if c.Path != "" {
		sb.WriteString("; path=")
		sb.WriteString(c.Path)
	}
	if c.SameSite != SameSiteUndefined {
		sb.WriteString("; SameSite=")
		sb.WriteString(c.SameSite.String())
	}
	if c.HttpOnly {
		sb.WriteString("; HttpOnly")
	}
	if c.Secure {
		sb.WriteString("; Secure")
	}

	return sb.String()
}
