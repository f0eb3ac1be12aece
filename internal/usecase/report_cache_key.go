package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"
)

type reportCacheKeyInput struct {
	Source string   `json:"source"`
	From   string   `json:"from"`
	To     string   `json:"to"`
	Users  []string `json:"users"`
}

func normalizeKeyValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// EngagementReportCacheKey canonicalizes the report criteria so two
// equivalent requests hit the same cache slot.
func EngagementReportCacheKey(source string, from, to time.Time, userIDs []string) string {
	users := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		id = normalizeKeyValue(id)
		if id == "" {
			continue
		}
		users = append(users, id)
	}
	sort.Strings(users)

	in := reportCacheKeyInput{
		Source: normalizeKeyValue(source),
		From:   from.UTC().Format("2006-01-02"),
		To:     to.UTC().Format("2006-01-02"),
		Users:  users,
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	h := hex.EncodeToString(sum[:])
	return "reports:engagement:" + h
}

func EngagementReportLockKey(reportKey string) string {
	reportKey = strings.TrimSpace(reportKey)
	if strings.HasPrefix(reportKey, "reports:engagement:") {
		return "reports:lock:" + strings.TrimPrefix(reportKey, "reports:engagement:")
	}
	return "reports:lock:" + reportKey
}
