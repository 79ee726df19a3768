package parser

import (
	"regexp"
	"strconv"
	"strings"

	cerr "ssw-msgspec-gen/pkg/errors"
)

var occurrenceFieldNameRe = regexp.MustCompile(`(?i)^occur(r)?enceCount$`)
var occurrenceRangeRe = regexp.MustCompile(`^(\d+)\.\.(\d+|[Nn*])$`)

// detectOptions bundles the knobs the detector pass needs.
type detectOptions struct {
	transliterator Transliterator
	maxIdentifier  int
	maxDepth       int
}

// runDetector applies object/array/transitory classification
// and identifier normalization to a freshly built tree, depth
// first and pre-order so a container's own classification is settled
// before its occurrenceCount child is allowed to re-classify it.
func runDetector(nodes []*buildNode, parent *buildNode, depth int, opts detectOptions, warnings *[]string) error {
	if depth > opts.maxDepth {
		*warnings = append(*warnings, "nesting depth exceeds configured maximum")
	}
	for _, n := range nodes {
		if err := classifyNode(n, parent, opts); err != nil {
			return err
		}
		if err := runDetector(n.children, n, depth+1, opts, warnings); err != nil {
			return err
		}
	}
	return nil
}

func classifyNode(n *buildNode, parent *buildNode, opts detectOptions) error {
	raw := strings.TrimSpace(n.raw.fieldName)

	switch {
	case strings.Contains(raw, ":") && n.raw.length == "" && n.raw.dataType == "":
		left, right, _ := strings.Cut(raw, ":")
		left, right = strings.TrimSpace(left), strings.TrimSpace(right)
		if left == "" || right == "" {
			return cerr.Parse(n.raw.sheet, n.raw.rowIndex, raw, "malformed container definition: fieldName:ClassName must have both sides non-empty")
		}
		n.isObject = true
		name := NormalizeIdentifier(left, opts.transliterator, opts.maxIdentifier)
		n.camelCaseName = &name
		n.className = &right

	case strings.EqualFold(raw, "groupid"):
		n.isTransitory = true
		gid := strings.TrimSpace(n.raw.description)
		n.groupID = &gid
		if !isContainerBuildNode(parent) {
			return cerr.Parse(n.raw.sheet, n.raw.rowIndex, raw, "groupId marker must be a direct child of its container")
		}

	case occurrenceFieldNameRe.MatchString(raw):
		n.isTransitory = true
		oc := strings.TrimSpace(n.raw.description)
		n.occurrenceCount = &oc
		if !isContainerBuildNode(parent) {
			return cerr.Parse(n.raw.sheet, n.raw.rowIndex, raw, "occurrenceCount marker must be a direct child of its container")
		}
		isArray, err := occurrenceImpliesArray(n.raw.sheet, n.raw.rowIndex, oc)
		if err != nil {
			return err
		}
		if isArray {
			parent.isArray = true
			parent.isObject = false
			occ := oc
			parent.occurrenceCount = &occ
		}

	default:
		name := NormalizeIdentifier(raw, opts.transliterator, opts.maxIdentifier)
		n.camelCaseName = &name
	}
	return nil
}

func isContainerBuildNode(n *buildNode) bool {
	return n != nil && (n.isObject || n.isArray)
}

// occurrenceImpliesArray parses "min..max" and reports
// whether max > 1 (or unbounded: "N"/"*"), which re-classifies the parent
// as an array.
func occurrenceImpliesArray(sheet string, row int, raw string) (bool, error) {
	m := occurrenceRangeRe.FindStringSubmatch(raw)
	if m == nil {
		return false, cerr.Parse(sheet, row, "occurrenceCount", "malformed occurrenceCount value, expected min..max")
	}
	maxText := m[2]
	if strings.EqualFold(maxText, "N") || maxText == "*" {
		return true, nil
	}
	maxVal, err := strconv.Atoi(maxText)
	if err != nil {
		return false, cerr.Parse(sheet, row, "occurrenceCount", "malformed occurrenceCount max value")
	}
	return maxVal > 1, nil
}

// ParseOccurrence exposes the min/max split for emitters that need the
// finite max (e.g. XML fixedCount, OpenAPI maxItems). finite is false for
// "N" or "*".
func ParseOccurrence(raw string) (min int, max int, finite bool, ok bool) {
	m := occurrenceRangeRe.FindStringSubmatch(raw)
	if m == nil {
		return 0, 0, false, false
	}
	min, _ = strconv.Atoi(m[1])
	if strings.EqualFold(m[2], "N") || m[2] == "*" {
		return min, 0, false, true
	}
	max, _ = strconv.Atoi(m[2])
	return min, max, true, true
}

// checkDuplicates enforces uniqueness: within each
// children scope, camelCaseName must be unique among non-transitory
// nodes. The first duplicate found is reported with the offending row.
func checkDuplicates(nodes []*buildNode, sheet string) error {
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if !n.isTransitory && n.camelCaseName != nil {
			name := *n.camelCaseName
			if seen[name] {
				return cerr.Parse(sheet, n.raw.rowIndex, n.raw.fieldName, "duplicate camelCaseName \""+name+"\" in this scope")
			}
			seen[name] = true
		}
		if err := checkDuplicates(n.children, sheet); err != nil {
			return err
		}
	}
	return nil
}

// validateContainers enforces that a container has at
// least one non-transitory child, and isArray XOR isObject holds.
func validateContainers(nodes []*buildNode) error {
	for _, n := range nodes {
		if n.isObject || n.isArray {
			if n.isObject == n.isArray {
				return cerr.Parse(n.raw.sheet, n.raw.rowIndex, n.raw.fieldName, "container must be exactly one of object or array")
			}
			hasChild := false
			for _, c := range n.children {
				if !c.isTransitory {
					hasChild = true
					break
				}
			}
			if !hasChild {
				return cerr.Parse(n.raw.sheet, n.raw.rowIndex, n.raw.fieldName, "container has no non-transitory children")
			}
		}
		if err := validateContainers(n.children); err != nil {
			return err
		}
	}
	return nil
}
