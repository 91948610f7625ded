package browser

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// root is one well-known Chromium user-data directory for a browser.
type root struct {
	browser string
	dir     string
}

// defaultRoots returns the conventional Chromium user-data locations for the
// current platform. Directories that do not exist are filtered out later.
func defaultRoots() []root {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	switch runtime.GOOS {
	case "windows":
		local := os.Getenv("LOCALAPPDATA")
		if local == "" {
			local = filepath.Join(home, "AppData", "Local")
		}
		return []root{
			{"Chrome", filepath.Join(local, "Google", "Chrome", "User Data")},
			{"Edge", filepath.Join(local, "Microsoft", "Edge", "User Data")},
			{"Brave", filepath.Join(local, "BraveSoftware", "Brave-Browser", "User Data")},
			{"Chromium", filepath.Join(local, "Chromium", "User Data")},
			{"Vivaldi", filepath.Join(local, "Vivaldi", "User Data")},
		}
	case "darwin":
		support := filepath.Join(home, "Library", "Application Support")
		return []root{
			{"Chrome", filepath.Join(support, "Google", "Chrome")},
			{"Edge", filepath.Join(support, "Microsoft Edge")},
			{"Brave", filepath.Join(support, "BraveSoftware", "Brave-Browser")},
			{"Chromium", filepath.Join(support, "Chromium")},
			{"Vivaldi", filepath.Join(support, "Vivaldi")},
		}
	default:
		config := filepath.Join(home, ".config")
		return []root{
			{"Chrome", filepath.Join(config, "google-chrome")},
			{"Edge", filepath.Join(config, "microsoft-edge")},
			{"Brave", filepath.Join(config, "BraveSoftware", "Brave-Browser")},
			{"Chromium", filepath.Join(config, "chromium")},
			{"Vivaldi", filepath.Join(config, "vivaldi")},
		}
	}
}

// Discover enumerates browser profiles with a history store under the
// platform's well-known Chromium locations.
func Discover() []Profile {
	var profiles []Profile
	for _, r := range defaultRoots() {
		profiles = append(profiles, discoverUnder(r.browser, r.dir)...)
	}
	return sortProfiles(profiles)
}

// discoverUnder lists the profile directories of one user-data root.
// Chromium names them "Default" and "Profile N"; user-chosen display names
// live in the root's Local State file.
func discoverUnder(browserName, dir string) []Profile {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	names := profileDisplayNames(dir)

	var profiles []Profile
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if e.Name() != "Default" && !strings.HasPrefix(e.Name(), "Profile ") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if !HasHistory(path) {
			continue
		}

		label := e.Name()
		if display, ok := names[e.Name()]; ok && display != "" {
			label = display
		}
		profiles = append(profiles, Profile{Browser: browserName, Name: label, Path: path})
	}
	return profiles
}

// profileDisplayNames reads the user-data root's Local State and returns the
// directory-name to display-name mapping. Missing or malformed files yield
// an empty map; the directory name is a fine fallback.
func profileDisplayNames(dir string) map[string]string {
	data, err := os.ReadFile(filepath.Join(dir, "Local State"))
	if err != nil {
		return nil
	}

	var state struct {
		Profile struct {
			InfoCache map[string]struct {
				Name string `json:"name"`
			} `json:"info_cache"`
		} `json:"profile"`
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return nil
	}

	names := make(map[string]string, len(state.Profile.InfoCache))
	for dirName, info := range state.Profile.InfoCache {
		names[dirName] = info.Name
	}
	return names
}

func sortProfiles(profiles []Profile) []Profile {
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].Browser != profiles[j].Browser {
			return profiles[i].Browser < profiles[j].Browser
		}
		return profiles[i].Name < profiles[j].Name
	})
	return profiles
}
