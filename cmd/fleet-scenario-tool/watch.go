package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/woozymasta/fleet-scenario-tool/internal/gamefiles"
	"github.com/woozymasta/fleet-scenario-tool/internal/scenario"
)

type watchCmd struct {
	Args struct {
		Dir string `positional-arg-name:"DIR" description:"Game directory (default: dir from settings)"`
	} `positional-args:"true"`

	Width int `short:"w" long:"width" default:"78" description:"Wrap width of narrative text"`
}

// Execute watches the game directory until interrupted.
func (c *watchCmd) Execute(_ []string) error {
	ws, err := openWorkspace("")
	if err != nil {
		return err
	}
	if c.Args.Dir != "" {
		ws.dir = cleanAbs(c.Args.Dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(ws.dir); err != nil {
		return errors.Wrapf(err, "watch %s", ws.dir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sw := &scenarioWatch{ws: ws, maps: newMapCache(ws), width: c.Width}
	sw.reload(filepath.Join(ws.dir, gamefiles.ScenarioFileName))
	log.Infof("watching %s", ws.dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if isScenarioWrite(event) {
				sw.reload(event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnf("watch: %v", err)
		}
	}
}

func isScenarioWrite(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}

	return strings.EqualFold(filepath.Base(event.Name), gamefiles.ScenarioFileName)
}

// scenarioWatch re-decodes the records whose bytes changed since the last load.
type scenarioWatch struct {
	ws    *workspace
	maps  *mapCache
	sums  map[int]uint64
	width int
}

func (w *scenarioWatch) reload(path string) {
	f, err := scenario.Load(path)
	if err != nil {
		// The game may still be writing the file.
		log.Warnf("%v", err)
		return
	}

	sums := fingerprints(f)
	first := w.sums == nil
	changed, removed := diffFingerprints(w.sums, sums)
	w.sums = sums

	for _, i := range removed {
		log.Infof("scenario %d removed", i)
	}
	if first {
		log.Infof("%s: %d scenarios", path, len(f.Records))
		return
	}
	if len(changed) == 0 {
		log.Debugf("%s: no record changed", path)
		return
	}

	for _, i := range changed {
		r := f.Records[i]
		mapPath, _ := w.ws.findMap(r.ScenarioKey)
		m := w.maps.get(mapPath)
		if m == nil {
			mapPath = ""
		}

		d := decodeScenario(r, w.ws.cfg.ScriptOptions(mapContext(m)), mapPath)
		fmt.Println(renderScenario(d, w.width))
	}
}

func fingerprints(f *scenario.File) map[int]uint64 {
	out := make(map[int]uint64, len(f.Records))
	for _, r := range f.Records {
		sum, err := r.Fingerprint()
		if err != nil {
			log.Warnf("scenario %d: %v", r.Index, err)
			continue
		}
		out[r.Index] = sum
	}

	return out
}

// diffFingerprints returns the sorted indexes that are new or changed in cur
// and the ones missing from it.
func diffFingerprints(prev, cur map[int]uint64) (changed, removed []int) {
	for i, sum := range cur {
		if old, ok := prev[i]; !ok || old != sum {
			changed = append(changed, i)
		}
	}
	for i := range prev {
		if _, ok := cur[i]; !ok {
			removed = append(removed, i)
		}
	}
	sort.Ints(changed)
	sort.Ints(removed)

	return changed, removed
}
