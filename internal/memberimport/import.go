// Package memberimport bulk-loads members from gzip-compressed JSON-lines
// files.
//
// Each line holds one object of the form
//
//	{"id": 1, "name": "memberA", "grade": "VIP"}
//
// Files are streamed: up to workers files are decoded concurrently into
// per-file buffers of streamBuffer members while members are joined in file
// order and then line order, so the last occurrence of an id wins. Memory
// use grows with the number of files, not their size. Members joined before
// a failure stay joined.
package memberimport

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"strconv"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	pgzip "github.com/klauspost/pgzip"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/order-core/internal/domain/member"
)

const (
	defaultWorkers = 4
	bloomCapacity  = 1_000_000
	bloomFPR       = 0.001
	maxLineBytes   = 1 << 20
	progressEvery  = 100_000
	streamBuffer   = 1024
)

// Joiner stores members.
type Joiner interface {
	Join(ctx context.Context, m member.Member) error
}

// Stats summarises an import.
type Stats struct {
	Files   int
	Members int
	// Overwrites counts members whose id the bloom filter reported as
	// already imported. It is an upper bound on the true overwrite count.
	Overwrites int
}

// Importer joins members decoded from files.
type Importer struct {
	members Joiner
	workers int
}

// NewImporter returns an Importer that decodes up to workers files at once.
// Non-positive workers selects a default.
func NewImporter(members Joiner, workers int) *Importer {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Importer{members: members, workers: workers}
}

// Run imports every file in paths.
func (i *Importer) Run(ctx context.Context, paths []string) (Stats, error) {
	lg := zctx.From(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	streams := make([]chan member.Member, len(paths))
	for idx := range streams {
		streams[idx] = make(chan member.Member, streamBuffer)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.workers)

	// Decoders are started in file order, so the file being joined always
	// has a running decoder.
	launched := make(chan struct{})
	go func() {
		defer close(launched)
		for idx, path := range paths {
			out := streams[idx]
			g.Go(func() error {
				defer close(out)

				var count int
				if err := streamFile(gctx, path, func(m member.Member) error {
					select {
					case out <- m:
						count++
						return nil
					case <-gctx.Done():
						return gctx.Err()
					}
				}); err != nil {
					return errors.Wrapf(err, "decode %s", path)
				}

				lg.Info("File decoded",
					zap.String("path", path),
					zap.Int("members", count),
				)
				return nil
			})
		}
	}()

	stats := Stats{Files: len(paths)}
	joinErr := i.join(gctx, streams, &stats)
	if joinErr != nil {
		cancel()
	}

	<-launched
	if err := g.Wait(); err != nil {
		return stats, err
	}
	if joinErr != nil {
		return stats, joinErr
	}

	return stats, nil
}

// join drains streams in order and joins every member.
func (i *Importer) join(ctx context.Context, streams []chan member.Member, stats *Stats) error {
	lg := zctx.From(ctx)
	seen := bloom.NewWithEstimates(bloomCapacity, bloomFPR)

	var key []byte
	for _, stream := range streams {
		for m := range stream {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := i.members.Join(ctx, m); err != nil {
				return errors.Wrapf(err, "join member %d", m.ID)
			}

			key = strconv.AppendInt(key[:0], m.ID, 10)
			if seen.TestAndAdd(key) {
				stats.Overwrites++
			}
			stats.Members++
			if stats.Members%progressEvery == 0 {
				lg.Info("Import progress", zap.Int("members", stats.Members))
			}
		}
	}
	return nil
}

// streamFile opens a gzip-compressed JSON-lines file and calls fn for each
// decoded member.
func streamFile(ctx context.Context, path string, fn func(m member.Member) error) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open")
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrap(err, "create gzip reader")
	}
	defer func() { _ = gz.Close() }()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for line := 1; scanner.Scan(); line++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		b := scanner.Bytes()
		if len(bytes.TrimSpace(b)) == 0 {
			continue
		}
		m, err := DecodeMember(jx.DecodeBytes(b))
		if err != nil {
			return errors.Wrapf(err, "line %d", line)
		}
		if err := fn(m); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "scan")
	}

	return nil
}

// DecodeMember decodes a single member object. The id, name and grade
// fields are required; unknown fields are ignored.
func DecodeMember(d *jx.Decoder) (member.Member, error) {
	var (
		m                        member.Member
		hasID, hasName, hasGrade bool
	)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "id":
			v, err := d.Int64()
			if err != nil {
				return errors.Wrap(err, "id")
			}
			m.ID, hasID = v, true
		case "name":
			v, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "name")
			}
			m.Name, hasName = v, true
		case "grade":
			v, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "grade")
			}
			g, err := member.ParseGrade(v)
			if err != nil {
				return err
			}
			m.Grade, hasGrade = g, true
		default:
			return d.Skip()
		}
		return nil
	}); err != nil {
		return member.Member{}, err
	}

	switch {
	case !hasID:
		return member.Member{}, errors.New("missing id")
	case !hasName:
		return member.Member{}, errors.New("missing name")
	case !hasGrade:
		return member.Member{}, errors.New("missing grade")
	}
	return m, nil
}
