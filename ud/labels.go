// Copyright 2024 UDPARSE contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ud provides the frozen Universal Dependencies v2 label
// inventory targeted by the parsing engine, along with semantic notes
// used by downstream entity/act extraction. All tables are immutable
// after package initialization.
package ud

import "sort"

// RootLabel is the relation assigned to the single token governed
// directly by the virtual ROOT node.
const RootLabel = "root"

// LabelInfo describes the downstream interpretation of a UD relation.
type LabelInfo struct {
	Role string `json:"role"`
	Note string `json:"note"`
}

// labelInfo covers the UD v2 inventory plus the EWT subtypes the
// trained models emit. The Role value is a coarse semantic hint, not
// a full semantic role label.
var labelInfo = map[string]LabelInfo{
	"acl":          {Role: "modifier", Note: "clausal modifier of noun"},
	"acl:relcl":    {Role: "modifier", Note: "relative clause modifier"},
	"advcl":        {Role: "modifier", Note: "adverbial clause modifier"},
	"advmod":       {Role: "modifier", Note: "adverbial modifier"},
	"amod":         {Role: "attribute", Note: "adjectival modifier"},
	"appos":        {Role: "alias", Note: "appositional modifier, typically an alternate name"},
	"aux":          {Role: "function", Note: "auxiliary verb"},
	"aux:pass":     {Role: "function", Note: "passive auxiliary"},
	"case":         {Role: "function", Note: "case marker (adposition)"},
	"cc":           {Role: "function", Note: "coordinating conjunction"},
	"ccomp":        {Role: "argument", Note: "clausal complement"},
	"clf":          {Role: "function", Note: "classifier"},
	"compound":     {Role: "attribute", Note: "compound element"},
	"compound:prt": {Role: "function", Note: "phrasal verb particle"},
	"conj":         {Role: "coordination", Note: "conjunct"},
	"cop":          {Role: "function", Note: "copula"},
	"csubj":        {Role: "agent-like", Note: "clausal subject"},
	"csubj:pass":   {Role: "patient-like", Note: "clausal passive subject"},
	"dep":          {Role: "unknown", Note: "unspecified dependency"},
	"det":          {Role: "function", Note: "determiner"},
	"det:predet":   {Role: "function", Note: "predeterminer"},
	"discourse":    {Role: "function", Note: "discourse element"},
	"dislocated":   {Role: "argument", Note: "dislocated element"},
	"expl":         {Role: "function", Note: "expletive"},
	"fixed":        {Role: "function", Note: "fixed multiword expression"},
	"flat":         {Role: "attribute", Note: "flat multiword expression (names)"},
	"flat:foreign": {Role: "attribute", Note: "foreign word sequence"},
	"goeswith":     {Role: "function", Note: "part of a badly split word"},
	"iobj":         {Role: "recipient", Note: "indirect object"},
	"list":         {Role: "coordination", Note: "list element"},
	"mark":         {Role: "function", Note: "clause subordinating marker"},
	"nmod":         {Role: "attribute", Note: "nominal modifier"},
	"nmod:poss":    {Role: "possessor", Note: "possessive nominal modifier"},
	"nmod:tmod":    {Role: "time", Note: "temporal nominal modifier"},
	"nsubj":        {Role: "agent-like", Note: "nominal subject"},
	"nsubj:pass":   {Role: "patient-like", Note: "passive nominal subject (patient under passivization)"},
	"nummod":       {Role: "attribute", Note: "numeric modifier"},
	"obj":          {Role: "patient-like", Note: "direct object"},
	"obl":          {Role: "oblique", Note: "oblique nominal, subtype via its case child"},
	"obl:agent":    {Role: "agent-like", Note: "passive agent via by-phrase"},
	"obl:npmod":    {Role: "oblique", Note: "oblique noun phrase modifier"},
	"obl:tmod":     {Role: "time", Note: "temporal oblique modifier"},
	"orphan":       {Role: "unknown", Note: "orphaned dependent in gapping"},
	"parataxis":    {Role: "coordination", Note: "paratactic clause"},
	"punct":        {Role: "function", Note: "punctuation"},
	"reparandum":   {Role: "function", Note: "overridden disfluency"},
	"root":         {Role: "predicate", Note: "sentence root"},
	"vocative":     {Role: "addressee", Note: "vocative"},
	"xcomp":        {Role: "argument", Note: "open clausal complement"},
}

// obliqueRoles maps case-marking prepositions of an `obl` dependent
// to the finer role downstream consumers assign to the phrase.
var obliqueRoles = map[string]string{
	"for":     "beneficiary",
	"with":    "instrument",
	"at":      "location",
	"in":      "location",
	"on":      "location",
	"from":    "source",
	"to":      "destination",
	"by":      "agent",
	"about":   "topic",
	"against": "opponent",
}

// IsValidLabel tests membership in the UD v2 label inventory
// (including the supported subtypes).
func IsValidLabel(label string) bool {
	_, ok := labelInfo[label]
	return ok
}

// LabelFor returns the semantic note attached to a UD label. For
// unmapped input it reports ok == false and never panics.
func LabelFor(label string) (LabelInfo, bool) {
	info, ok := labelInfo[label]
	return info, ok
}

// ObliqueRoleFor returns the oblique role subtype keyed by the
// (lowercased) preposition heading an obl phrase's case child.
func ObliqueRoleFor(preposition string) (string, bool) {
	role, ok := obliqueRoles[preposition]
	return role, ok
}

// AllLabels returns a sorted copy of the label inventory. The copy
// may be freely modified by the caller.
func AllLabels() []string {
	ans := make([]string, 0, len(labelInfo))
	for label := range labelInfo {
		ans = append(ans, label)
	}
	sort.Strings(ans)
	return ans
}
