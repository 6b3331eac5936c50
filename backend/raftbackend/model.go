/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package raftbackend

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lni/dragonboat/v3"
	dbcfg "github.com/lni/dragonboat/v3/config"
	sm "github.com/lni/dragonboat/v3/statemachine"

	libbck "github.com/nabbar/gcs/backend"
	liberr "github.com/nabbar/gcs/errors"
)

func init() {
	libbck.Register("raft", New)
}

const shardID uint64 = 1

// seqBooks tracks, per raft group (keyed by its initial membership, the
// same for every replica that was started with the same address), the
// highest global seqno any replica has reported through ReportSeqno. This
// stands in for what a durable commit-index read would give a real
// deployment; the bookmark lives in process memory and is not derived from
// the replicated log itself.
var (
	seqBooksMu sync.Mutex
	seqBooks   = make(map[string]uint64)
)

// groupKey canonicalizes a raft group's initial membership into a stable
// string every replica of that group computes identically, regardless of
// which replica's address happens to be listed first in its own URL.
func groupKey(initial map[uint64]string) string {
	ids := make([]uint64, 0, len(initial))
	for id := range initial {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var b strings.Builder
	for _, id := range ids {
		fmt.Fprintf(&b, "%d@%s;", id, initial[id])
	}
	return b.String()
}

func bumpSeqno(key string, seqno uint64) {
	seqBooksMu.Lock()
	if seqno > seqBooks[key] {
		seqBooks[key] = seqno
	}
	seqBooksMu.Unlock()
}

func nextSeqno(key string) uint64 {
	seqBooksMu.Lock()
	defer seqBooksMu.Unlock()
	return seqBooks[key] + 1
}

// raftBackend drives one dragonboat replica participating in shardID's
// single-shard group. address has the form
// "replicaID@raftAddress[,peerID@peerAddress...]" so a single URL carries
// both this replica's identity and the initial membership it joins.
type raftBackend struct {
	address   string
	replicaID uint64
	raftAddr  string
	initial   map[uint64]string
	group     string

	mu sync.Mutex
	nh *dragonboat.NodeHost
	in chan libbck.Event
}

// New constructs the Factory bound to the "raft://" scheme.
func New(address string) (libbck.Backend, error) {
	replicaID, raftAddr, initial, e := parseAddress(address)
	if e != nil {
		return nil, e
	}

	return &raftBackend{
		address:   address,
		replicaID: replicaID,
		raftAddr:  raftAddr,
		initial:   initial,
		group:     groupKey(initial),
		in:        make(chan libbck.Event, 256),
	}, nil
}

func parseAddress(address string) (uint64, string, map[uint64]string, error) {
	parts := strings.Split(address, ",")
	if len(parts) == 0 || parts[0] == "" {
		return 0, "", nil, liberr.Backend.Error()
	}

	self, raftAddr, ok := strings.Cut(parts[0], "@")
	if !ok {
		return 0, "", nil, liberr.Backend.Error()
	}

	replicaID, e := strconv.ParseUint(self, 10, 64)
	if e != nil {
		return 0, "", nil, liberr.Backend.Error(e)
	}

	initial := map[uint64]string{replicaID: raftAddr}
	for _, p := range parts[1:] {
		id, addr, ok := strings.Cut(p, "@")
		if !ok {
			continue
		}
		n, e := strconv.ParseUint(id, 10, 64)
		if e != nil {
			continue
		}
		initial[n] = addr
	}

	return replicaID, raftAddr, initial, nil
}

func originField(replicaID uint64) []byte {
	s := fmt.Sprintf("%d", replicaID)
	b := make([]byte, originFieldLen)
	copy(b, s)
	return b
}

func (r *raftBackend) Origin() string {
	return string(originField(r.replicaID))
}

func (r *raftBackend) ReportSeqno(seqno uint64) {
	bumpSeqno(r.group, seqno)
}

func (r *raftBackend) Open(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	nhc := dbcfg.NodeHostConfig{
		WALDir:         "",
		NodeHostDir:    "raft-data/" + strconv.FormatUint(r.replicaID, 10),
		RTTMillisecond: 200,
		RaftAddress:    r.raftAddr,
	}

	nh, e := dragonboat.NewNodeHost(nhc)
	if e != nil {
		return liberr.CouldNotConnect.Error(e)
	}

	rc := dbcfg.Config{
		ReplicaID:          r.replicaID,
		ShardID:            shardID,
		ElectionRTT:        10,
		HeartbeatRTT:       1,
		CheckQuorum:        true,
		SnapshotEntries:    0,
		CompactionOverhead: 0,
	}

	deliver := func(origin string, p []byte) {
		r.in <- libbck.Event{Message: p, Origin: origin}
	}

	create := func(_ uint64, _ uint64) sm.IStateMachine {
		return newGroupSM(deliver)
	}

	if e = nh.StartReplica(r.initial, false, create, rc); e != nil {
		nh.Stop()
		return liberr.Backend.Error(e)
	}

	r.nh = nh

	r.in <- libbck.Event{View: &libbck.ViewChange{
		Primary:     true,
		ConfID:      1,
		MemberCount: len(r.initial),
		MyIndex:     int(r.replicaID),
		NextSeqno:   nextSeqno(r.group),
	}}

	_ = ctx
	return nil
}

func (r *raftBackend) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nh != nil {
		r.nh.Stop()
		r.nh = nil
	}
	close(r.in)
	return nil
}

func (r *raftBackend) Send(ctx context.Context, p []byte) error {
	r.mu.Lock()
	nh := r.nh
	r.mu.Unlock()

	if nh == nil {
		return liberr.ConnectionClosed.Error()
	}

	cx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	session := nh.GetNoOPSession(shardID)
	entry := append(originField(r.replicaID), p...)

	_, e := nh.SyncPropose(cx, session, entry)
	if e != nil {
		return liberr.Backend.Error(e)
	}
	return nil
}

func (r *raftBackend) Recv(ctx context.Context) (libbck.Event, error) {
	select {
	case ev, ok := <-r.in:
		if !ok {
			return libbck.Event{Closed: true}, nil
		}
		return ev, nil
	case <-ctx.Done():
		return libbck.Event{}, ctx.Err()
	}
}
