package assets

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/intothevoid/tftsight/pkg/roster"
	"github.com/rs/zerolog/log"
)

// Syncer regenerates the class list, champion metadata and icon set from the
// CommunityDragon feed.
type Syncer struct {
	Client      *http.Client
	FeedURL     string
	BaseURL     string
	ClassesPath string
	MetaPath    string
	IconDir     string // empty skips icon downloads
	IconSize    int
	Workers     int
}

// Result summarises one sync run.
type Result struct {
	SetNumber   int
	Classes     []string
	Meta        *roster.Meta
	Icons       int
	IconsFailed int
}

type iconJob struct {
	class string
	url   string
}

// Run fetches the feed and writes classes.txt and champ_meta.json. Icon
// failures are logged and skipped; they never fail the run.
func (s *Syncer) Run(ctx context.Context) (*Result, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	log.Info().Str("url", s.FeedURL).Msg("Fetching TFT data")
	feed, err := FetchFeed(ctx, client, s.FeedURL)
	if err != nil {
		return nil, err
	}
	set, err := LatestSet(feed)
	if err != nil {
		return nil, err
	}
	setNumber := set.Get("number").MustInt(0)

	var (
		classes   []string
		champions []roster.Champion
		jobs      []iconJob
		seen      = map[string]bool{}
	)
	for _, u := range Units(set) {
		if !IsPlayable(u) {
			continue
		}
		c, ok := Champion(u)
		if !ok {
			continue
		}
		class := roster.SafeName(c.Name)
		if seen[class] {
			continue
		}
		seen[class] = true
		classes = append(classes, class)
		champions = append(champions, c)
		if url, ok := IconURL(s.BaseURL, u); ok {
			jobs = append(jobs, iconJob{class: class, url: url})
		}
	}
	if len(classes) == 0 {
		return nil, ErrNoPlayable
	}

	meta := &roster.Meta{SetNumber: setNumber, Count: len(classes), Champions: champions}
	if err := roster.WriteClasses(s.ClassesPath, classes); err != nil {
		return nil, fmt.Errorf("assets: write classes: %w", err)
	}
	if err := roster.WriteMeta(s.MetaPath, meta); err != nil {
		return nil, fmt.Errorf("assets: write metadata: %w", err)
	}
	log.Info().Int("set", setNumber).Int("champions", len(classes)).
		Str("classes", s.ClassesPath).Str("meta", s.MetaPath).Msg("Wrote roster")

	res := &Result{SetNumber: setNumber, Classes: classes, Meta: meta}
	if s.IconDir != "" {
		res.Icons, res.IconsFailed = s.downloadIcons(ctx, client, jobs)
		log.Info().Int("saved", res.Icons).Int("failed", res.IconsFailed).Str("dir", s.IconDir).Msg("Icons synced")
	}
	return res, nil
}

func (s *Syncer) downloadIcons(ctx context.Context, client *http.Client, jobs []iconJob) (ok, failed int) {
	if err := os.MkdirAll(s.IconDir, 0o755); err != nil {
		log.Error().Err(err).Str("dir", s.IconDir).Msg("Cannot create icon directory")
		return 0, len(jobs)
	}

	workers := s.Workers
	if workers <= 0 {
		workers = 8
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, workers)
	)
	for _, j := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(j iconJob) {
			defer wg.Done()
			defer func() { <-sem }()

			err := s.saveIcon(ctx, client, j)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn().Err(err).Str("champion", j.class).Msg("Icon download failed")
				failed++
				return
			}
			ok++
		}(j)
	}
	wg.Wait()
	return ok, failed
}

func (s *Syncer) saveIcon(ctx context.Context, client *http.Client, j iconJob) error {
	body, err := get(ctx, client, j.url)
	if err != nil {
		return err
	}
	defer body.Close()

	img, err := imaging.Decode(body)
	if err != nil {
		return fmt.Errorf("decode icon: %w", err)
	}
	if s.IconSize > 0 {
		img = imaging.Fill(img, s.IconSize, s.IconSize, imaging.Center, imaging.Lanczos)
	}
	return imaging.Save(img, filepath.Join(s.IconDir, j.class+".png"))
}
