// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"strings"
	"sync"

	"github.com/pdiddy/plan-engine/pkg/types"
)

// jobStatus tracks a generation job through its lifecycle.
type jobStatus string

const (
	statusRunning jobStatus = "running"
	statusDone    jobStatus = "done"
	statusFailed  jobStatus = "failed"
)

// job holds the state of one generation run. The generation goroutine
// writes; handlers read; mu guards both.
type job struct {
	mu       sync.Mutex
	id       string
	status   jobStatus
	progress []string
	plan     *types.BusinessPlan
	errMsg   string
}

func (j *job) appendProgress(line string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.progress = append(j.progress, line)
}

func (j *job) finish(plan *types.BusinessPlan) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.plan = plan
	j.status = statusDone
}

func (j *job) fail(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errMsg = msg
	j.status = statusFailed
}

// snapshot copies the job state for a response.
func (j *job) snapshot() jobResp {
	j.mu.Lock()
	defer j.mu.Unlock()
	resp := jobResp{
		JobID:    j.id,
		Status:   string(j.status),
		Progress: append([]string(nil), j.progress...),
		Error:    j.errMsg,
	}
	if j.status == statusDone {
		resp.Plan = j.plan
	}
	return resp
}

// finished reports whether the job has reached a terminal state.
func (j *job) finished() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status != statusRunning
}

// donePlan returns the completed plan, or nil while running or failed.
func (j *job) donePlan() *types.BusinessPlan {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status != statusDone {
		return nil
	}
	return j.plan
}

// lineWriter adapts a job to io.Writer so the generation loop's progress
// reporter can record into it. Each write is expected to be one line.
type lineWriter struct {
	j *job
}

func (w lineWriter) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	if line != "" {
		w.j.appendProgress(line)
	}
	return len(p), nil
}

// maxFinishedJobs caps how many completed or failed jobs a long-running
// server keeps in memory. Running jobs are never evicted.
const maxFinishedJobs = 50

// jobStore is a mutex-guarded in-memory job registry. Finished jobs
// beyond maxFinishedJobs are evicted oldest-first when new jobs arrive.
type jobStore struct {
	mu    sync.Mutex
	jobs  map[string]*job
	order []string
}

func newJobStore() *jobStore {
	return &jobStore{jobs: make(map[string]*job)}
}

func (s *jobStore) set(j *job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.id] = j
	s.order = append(s.order, j.id)
	s.evictLocked()
}

func (s *jobStore) evictLocked() {
	finished := 0
	for _, id := range s.order {
		if j, ok := s.jobs[id]; ok && j.finished() {
			finished++
		}
	}
	if finished <= maxFinishedJobs {
		return
	}

	kept := s.order[:0]
	for _, id := range s.order {
		j, ok := s.jobs[id]
		if !ok {
			continue
		}
		if finished > maxFinishedJobs && j.finished() {
			delete(s.jobs, id)
			finished--
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
}

func (s *jobStore) get(id string) (*job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	return j, ok
}
