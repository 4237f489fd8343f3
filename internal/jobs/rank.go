package jobs

import (
	"sort"
	"strings"

	"github.com/jonathan/career-advisor/internal/types"
)

// DefaultScore is assigned when the resume lists no skills to rank
// against. Callers skip scoring entirely when no resume exists.
const DefaultScore = 50

// RemoteBonus is added to remote postings; the total never exceeds 100.
const RemoteBonus = 5

// ScoreJob ranks a single posting against the resume skill list. The base
// score is the fraction of resume skills mentioned in the posting, scaled
// to 100.
func ScoreJob(posting *types.JobPosting, resumeSkills []string) int {
	if len(resumeSkills) == 0 {
		return DefaultScore
	}

	haystack := strings.ToLower(posting.Title + " " + posting.Description)
	matching := 0
	for _, skill := range resumeSkills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" {
			continue
		}
		if strings.Contains(haystack, skill) {
			matching++
		}
	}

	score := matching * 100 / len(resumeSkills)
	if score > 100 {
		score = 100
	}
	if posting.RemoteType == types.RemoteTypeRemote {
		score += RemoteBonus
	}
	if score > 100 {
		score = 100
	}
	return score
}

// RankJobs scores every posting in place and sorts the slice by score,
// highest first. Postings rank against whatever skills the resume has;
// with no skills every posting gets the default score.
func RankJobs(postings []*types.JobPosting, resumeSkills []string) {
	for _, posting := range postings {
		score := ScoreJob(posting, resumeSkills)
		posting.MatchScore = &score
	}
	sort.SliceStable(postings, func(i, j int) bool {
		return postings[i].Score() > postings[j].Score()
	})
}
