package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	simplejson "github.com/bitly/go-simplejson"
	"github.com/intothevoid/tftsight/pkg/roster"
)

var (
	ErrNoSets     = errors.New("assets: no sets found in TFT JSON")
	ErrNoPlayable = errors.New("assets: no playable champions found; check schema/filters")
)

// npcKeywords mark units that carry a cost and traits but never appear in the
// shop: training dummies, summons, minions, test artifacts.
var npcKeywords = []string{
	"dummy", "training", "scuttler", "golem", "minion", "plant",
	"spine", "root", "test", "mech_core", "mercenary", "chest",
	"anvil", "tome", "artifact", "component", "support_item",
}

// FetchFeed downloads and decodes the CommunityDragon TFT JSON.
func FetchFeed(ctx context.Context, client *http.Client, url string) (*simplejson.Json, error) {
	body, err := get(ctx, client, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	feed, err := simplejson.NewFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("assets: decode feed: %w", err)
	}
	return feed, nil
}

func get(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("assets: GET %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("assets: GET %s: %s", url, resp.Status)
	}
	return resp.Body, nil
}

// LatestSet returns the set with the highest "number". The feed keys sets
// by number in an object, though older dumps use an array.
func LatestSet(feed *simplejson.Json) (*simplejson.Json, error) {
	raw := feed.Get("sets")

	var sets []*simplejson.Json
	if m, err := raw.Map(); err == nil {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sets = append(sets, raw.Get(k))
		}
	} else if arr, err := raw.Array(); err == nil {
		for i := range arr {
			sets = append(sets, raw.GetIndex(i))
		}
	}
	if len(sets) == 0 {
		return nil, ErrNoSets
	}

	latest := sets[0]
	for _, s := range sets[1:] {
		if s.Get("number").MustInt(0) > latest.Get("number").MustInt(0) {
			latest = s
		}
	}
	return latest, nil
}

// Units returns the set's unit list, stored under "champions" or "units"
// depending on the feed version.
func Units(set *simplejson.Json) []*simplejson.Json {
	for _, key := range []string{"champions", "units"} {
		arr, err := set.Get(key).Array()
		if err != nil || len(arr) == 0 {
			continue
		}
		units := make([]*simplejson.Json, 0, len(arr))
		for i := range arr {
			u := set.Get(key).GetIndex(i)
			if _, err := u.Map(); err == nil {
				units = append(units, u)
			}
		}
		return units
	}
	return nil
}

// IsPlayable reports whether a unit can be bought from the shop: a positive
// cost, at least one trait, and no NPC keyword in its names.
func IsPlayable(u *simplejson.Json) bool {
	cost, err := u.Get("cost").Float64()
	if err != nil || cost <= 0 {
		return false
	}
	traits, err := u.Get("traits").Array()
	if err != nil || len(traits) == 0 {
		return false
	}

	name := strings.ToLower(u.Get("name").MustString())
	api := strings.ToLower(firstString(u, "apiName", "characterName"))
	for _, k := range npcKeywords {
		if strings.Contains(name, k) || strings.Contains(api, k) {
			return false
		}
	}
	return true
}

// Champion converts a playable unit to roster metadata. ok is false when the
// unit has no usable name.
func Champion(u *simplejson.Json) (roster.Champion, bool) {
	name := firstString(u, "name", "characterName", "apiName")
	if name == "" {
		return roster.Champion{}, false
	}

	traits := []string{}
	for _, t := range u.Get("traits").MustArray() {
		if s, ok := t.(string); ok {
			traits = append(traits, s)
		}
	}

	return roster.Champion{
		CharacterName: firstString(u, "characterName", "apiName"),
		APIName:       firstString(u, "apiName", "characterName"),
		Name:          name,
		Cost:          int(u.Get("cost").MustFloat64()),
		Traits:        traits,
	}, true
}

// IconURL maps a unit's square icon asset path to its PNG on the mirror:
// lower-cased, under /game/, with the texture extension swapped for .png.
func IconURL(base string, u *simplejson.Json) (string, bool) {
	p := firstString(u, "squareIcon", "icon", "tileIcon")
	if p == "" {
		return "", false
	}
	p = strings.ToLower(strings.TrimPrefix(p, "/"))
	for _, ext := range []string{".tex", ".dds"} {
		if strings.HasSuffix(p, ext) {
			p = strings.TrimSuffix(p, ext) + ".png"
			break
		}
	}
	return strings.TrimRight(base, "/") + "/game/" + p, true
}

func firstString(u *simplejson.Json, keys ...string) string {
	for _, k := range keys {
		if s := strings.TrimSpace(u.Get(k).MustString()); s != "" {
			return s
		}
	}
	return ""
}
