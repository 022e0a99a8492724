package history

import (
	"strconv"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// MarshalSnapshot serializes the journal's full state — every retained
// action, the cursor, and the group counters — to JSON, for the persist
// package's out-of-band export.
func (j *Journal) MarshalSnapshot() ([]byte, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	data := []byte("{}")
	var err error
	set := func(path string, v interface{}) {
		if err != nil {
			return
		}
		data, err = sjson.SetBytes(data, path, v)
	}

	set("cursor", j.cursor)
	set("group_seq", j.groupSeq)
	set("group_count", j.groupCount)
	set("max_groups", j.maxGroups)
	set("unlimited", j.unlimited)
	for i, a := range j.history {
		prefix := "actions." + strconv.Itoa(i) + "."
		set(prefix+"kind", int(a.Kind))
		set(prefix+"start", a.Start)
		set(prefix+"end", a.End)
		set(prefix+"text", a.CapturedText)
		set(prefix+"group_id", a.GroupID)
		set(prefix+"unix_nano", a.Timestamp.UnixNano())
	}
	return data, err
}

// UnmarshalSnapshot restores a journal's state from a snapshot produced
// by MarshalSnapshot, discarding whatever the journal previously held.
func (j *Journal) UnmarshalSnapshot(data []byte) error {
	root := gjson.ParseBytes(data)

	j.mu.Lock()
	defer j.mu.Unlock()

	j.cursor = int(root.Get("cursor").Int())
	j.groupSeq = root.Get("group_seq").Uint()
	j.groupCount = int(root.Get("group_count").Int())
	if n := root.Get("max_groups").Int(); n > 0 {
		j.maxGroups = int(n)
	}
	j.unlimited = root.Get("unlimited").Bool()

	j.history = nil
	for _, a := range root.Get("actions").Array() {
		j.history = append(j.history, Action{
			Kind:         Kind(a.Get("kind").Int()),
			Start:        a.Get("start").Int(),
			End:          a.Get("end").Int(),
			CapturedText: a.Get("text").String(),
			GroupID:      a.Get("group_id").Uint(),
			Timestamp:    time.Unix(0, a.Get("unix_nano").Int()),
		})
	}
	return nil
}
