// Copyright © Michael Smith <mikesmiffy128@gmail.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted, provided that the above
// copyright notice and this permission notice appear in all copies.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.

package main

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/golang/glog"
)

// watchAndRun runs fn once immediately, then again every time a file
// under one of dirs changes, until the process is killed. There is no
// pack example exercising fsnotify directly; this is plain upstream
// fsnotify usage per its own documented API.
func watchAndRun(dirs []string, fn func() error) error {
	if err := fn(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("sstgen: starting watcher: %w", err)
	}
	defer w.Close()

	for _, d := range dirs {
		if err := addRecursive(w, d); err != nil {
			return fmt.Errorf("sstgen: watching %s: %w", d, err)
		}
	}

	glog.Infof("sstgen: watching %v for changes", dirs)
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if ev.Op&fsnotify.Create != 0 {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if err := addRecursive(w, ev.Name); err != nil {
						glog.Warningf("sstgen: watching %s: %v", ev.Name, err)
					}
				}
			}
			glog.V(1).Infof("sstgen: %s changed, regenerating", ev.Name)
			if err := fn(); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			glog.Errorf("sstgen: watcher error: %v", err)
		}
	}
}

// addRecursive adds dir and every subdirectory under it to w; new
// feature packages are typically new subdirectories, so the watch needs
// to follow directory creation, not just file writes in directories
// already known when the watch started.
func addRecursive(w *fsnotify.Watcher, dir string) error {
	return filepathWalkDirs(dir, func(path string) error {
		return w.Add(path)
	})
}

func filepathWalkDirs(root string, visit func(path string) error) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	if err := visit(root); err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			if err := filepathWalkDirs(root+"/"+e.Name(), visit); err != nil {
				return err
			}
		}
	}
	return nil
}
