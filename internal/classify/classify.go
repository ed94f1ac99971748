// Package classify assigns a category to parsed records.
//
// Classification is deterministic and side-effect-free: checks run in a fixed
// priority order and the first match wins.
package classify

import (
	"net/netip"
	"regexp"
	"strconv"
	"strings"

	"github.com/vlogscan/vlogscan-go/pkg/vlog/record"
)

// Verb tables. Native .vlog actions are three-letter uppercase codes; loose
// lines use plain English verbs. Matching is case-insensitive.
var (
	networkVerbs = map[string]bool{
		"connect": true, "disconnect": true, "conn": true, "disc": true,
		"dial": true, "listen": true, "recv": true, "send": true,
	}
	fileVerbs = map[string]bool{
		"open": true, "read": true, "write": true, "delete": true,
		"create": true, "rename": true, "chmod": true,
		"cre": true, "del": true, "wrt": true, "rea": true, "shd": true,
	}
	processVerbs = map[string]bool{
		"spawn": true, "exec": true, "kill": true, "fork": true,
		"run": true, "exe": true, "kil": true, "spn": true,
	}
)

var (
	userShapePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.-]*$`)
	pidShapePattern  = regexp.MustCompile(`^[0-9]{1,7}$`)
)

// Categorize assigns the record's category.
//
// Priority order: Network, FileOp, Process, UserActivity, Unknown. An
// IP-shaped field value on its own does not make a record Network; the
// network check needs a connection verb or an IP-shaped subject, so that
// e.g. "user=alice action=login ip=10.0.0.5" stays user activity.
func Categorize(r record.Record) record.Category {
	verb := strings.ToLower(r.Action)

	switch {
	case isNetwork(r, verb):
		return record.CategoryNetwork
	case isFileOp(r, verb):
		return record.CategoryFileOp
	case isProcess(r, verb):
		return record.CategoryProcess
	case isUserActivity(r):
		return record.CategoryUserActivity
	default:
		return record.CategoryUnknown
	}
}

func isNetwork(r record.Record, verb string) bool {
	if networkVerbs[verb] {
		return true
	}
	if isIPShaped(r.Subject) && verb != "" {
		return true
	}
	// A port number next to an IP-shaped target is a network record even
	// under an uncommon verb.
	if isIPShaped(r.Target) && r.Field("port") != "" {
		return true
	}
	return false
}

func isFileOp(r record.Record, verb string) bool {
	if !fileVerbs[verb] {
		return false
	}
	return isPathShaped(r.Target) || r.Field("path") != "" || r.Field("file") != ""
}

func isProcess(r record.Record, verb string) bool {
	if !processVerbs[verb] {
		return false
	}
	return pidShapePattern.MatchString(r.Field("pid")) ||
		pidShapePattern.MatchString(r.Target) ||
		isPathShaped(r.Target)
}

func isUserActivity(r record.Record) bool {
	return r.Action != "" && r.Subject != "" && userShapePattern.MatchString(r.Subject)
}

// isIPShaped reports whether s parses as an IPv4/IPv6 address or an
// address:port pair.
func isIPShaped(s string) bool {
	if s == "" {
		return false
	}
	if _, err := netip.ParseAddr(s); err == nil {
		return true
	}
	if host, port, ok := cutLast(s, ':'); ok {
		if _, err := strconv.Atoi(port); err != nil {
			return false
		}
		_, err := netip.ParseAddr(host)
		return err == nil
	}
	return false
}

// isPathShaped reports whether s looks like a filesystem path.
func isPathShaped(s string) bool {
	if strings.HasPrefix(s, "/") || strings.HasPrefix(s, "./") || strings.HasPrefix(s, "~/") {
		return true
	}
	// Windows drive letter or UNC path.
	if len(s) >= 3 && s[1] == ':' && (s[2] == '\\' || s[2] == '/') {
		return true
	}
	return strings.HasPrefix(s, `\\`)
}

// cutLast splits s around the last occurrence of sep.
func cutLast(s string, sep byte) (before, after string, found bool) {
	i := strings.LastIndexByte(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}
