package extraction

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jonathan/resume-scorer/internal/types"
)

// sectionAliases maps top-level keys models use instead of the section name.
var sectionAliases = map[string][]string{
	types.SectionBasics:    {"basic_info", "contact", "personal_info"},
	types.SectionWork:      {"work_experience", "experience", "workExperience", "employment", "jobs"},
	types.SectionEducation: {"educations", "academics"},
	types.SectionSkills:    {"technical_skills", "skill", "skillset"},
	types.SectionProjects:  {"project", "personal_projects"},
	types.SectionAwards:    {"achievements", "honors", "awards_and_achievements", "accomplishments"},
}

// fieldAliases maps item keys to their canonical name per section.
var fieldAliases = map[string]map[string]string{
	types.SectionWork: {
		"company": "name", "organization": "name", "employer": "name",
		"title": "position", "role": "position",
		"start_date": "startDate", "end_date": "endDate",
		"responsibilities": "highlights", "achievements": "highlights", "bullets": "highlights",
		"description": "summary",
	},
	types.SectionEducation: {
		"school": "institution", "university": "institution", "college": "institution",
		"degree": "studyType", "field": "area", "major": "area", "field_of_study": "area",
		"gpa": "score", "grade": "score",
		"start_date": "startDate", "end_date": "endDate",
	},
	types.SectionSkills: {
		"category": "name", "group": "name",
		"skills": "keywords", "items": "keywords", "values": "keywords",
	},
	types.SectionProjects: {
		"title": "name",
		"link": "url", "github": "url", "repository": "url", "repo": "url",
		"tech_stack": "technologies", "techStack": "technologies", "tools": "technologies", "skills": "technologies",
		"start_date": "startDate", "end_date": "endDate",
	},
	types.SectionAwards: {
		"name": "title", "award": "title",
		"issuer": "awarder", "organization": "awarder",
		"description": "summary",
	},
}

// listFields are item keys holding string lists; true when a plain string
// value is a comma separated list rather than a single entry.
var listFields = map[string]bool{
	"highlights": false, "courses": true, "keywords": true, "technologies": true,
}

// repairShape rewrites common model deviations into the section's schema
// shape and returns the re-encoded JSON. It never fails; invalid JSON is
// returned unchanged for the validator to report.
func repairShape(section string, raw string) []byte {
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return []byte(raw)
	}

	value := sectionValue(section, decoded)
	if section == types.SectionBasics {
		value = repairBasics(value)
	} else {
		value = repairList(section, value)
	}

	out, err := json.Marshal(map[string]any{section: value})
	if err != nil {
		return []byte(raw)
	}
	return out
}

// sectionValue finds the section payload in the decoded reply.
func sectionValue(section string, decoded any) any {
	obj, ok := decoded.(map[string]any)
	if !ok {
		// bare array (list sections) or scalar
		return decoded
	}
	if v, ok := obj[section]; ok {
		return v
	}
	for _, alias := range sectionAliases[section] {
		if v, ok := obj[alias]; ok {
			return v
		}
	}
	if len(obj) == 1 {
		// single unknown wrapper key, e.g. {"data": [...]}
		for _, v := range obj {
			if _, isList := v.([]any); isList && section != types.SectionBasics {
				return v
			}
		}
	}
	// the object itself is the payload (basics without wrapper, single list item)
	return obj
}

func repairBasics(value any) any {
	obj, ok := value.(map[string]any)
	if !ok {
		return value
	}
	for _, key := range []string{"label", "email", "phone", "url", "summary"} {
		obj[key] = stringify(obj[key])
	}
	if name, ok := obj["name"]; !ok || name == nil {
		obj["name"] = ""
	}
	if loc, ok := obj["location"].(string); ok {
		obj["location"] = map[string]any{"city": loc}
	}

	profiles := obj["profiles"]
	if profiles == nil {
		profiles = obj["links"]
		delete(obj, "links")
	}
	switch p := profiles.(type) {
	case map[string]any:
		// {"github": "https://github.com/x", ...}
		var list []any
		for _, network := range sortedKeys(p) {
			if url, ok := p[network].(string); ok && url != "" {
				list = append(list, map[string]any{"network": network, "url": url})
			}
		}
		obj["profiles"] = list
	case []any:
		var list []any
		for _, item := range p {
			switch v := item.(type) {
			case string:
				list = append(list, map[string]any{"url": v})
			case map[string]any:
				for _, key := range []string{"network", "username", "url"} {
					v[key] = stringify(v[key])
				}
				list = append(list, v)
			}
		}
		obj["profiles"] = list
	}
	return obj
}

func repairList(section string, value any) any {
	var items []any
	switch v := value.(type) {
	case nil:
		return []any{}
	case []any:
		items = v
	case map[string]any:
		if section == types.SectionSkills && looksLikeSkillMap(v) {
			// {"Languages": ["Go"], "Tools": ["Docker"]}
			for _, name := range sortedKeys(v) {
				items = append(items, map[string]any{"name": name, "keywords": v[name]})
			}
		} else {
			items = []any{v}
		}
	case string:
		items = []any{v}
	default:
		return value
	}

	out := make([]any, 0, len(items))
	var looseSkills []any
	for _, item := range items {
		switch v := item.(type) {
		case nil:
			continue
		case string:
			if strings.TrimSpace(v) == "" {
				continue
			}
			if section == types.SectionSkills {
				looseSkills = append(looseSkills, v)
				continue
			}
			out = append(out, repairItem(section, map[string]any{primaryKey(section): v}))
		case map[string]any:
			out = append(out, repairItem(section, v))
		default:
			out = append(out, item)
		}
	}
	if len(looseSkills) > 0 {
		out = append(out, map[string]any{"name": "Technical Skills", "keywords": looseSkills})
	}
	return out
}

func repairItem(section string, item map[string]any) map[string]any {
	aliases := fieldAliases[section]
	froms := make([]string, 0, len(aliases))
	for from := range aliases {
		froms = append(froms, from)
	}
	sort.Strings(froms)
	for _, from := range froms {
		to := aliases[from]
		if v, ok := item[from]; ok {
			if _, exists := item[to]; !exists || item[to] == nil {
				item[to] = v
			}
			delete(item, from)
		}
	}

	for key, v := range item {
		if split, ok := listFields[key]; ok {
			item[key] = stringList(v, split)
		} else {
			item[key] = stringify(v)
		}
	}

	key := primaryKey(section)
	if item[key] == nil {
		item[key] = ""
	}

	if section == types.SectionProjects {
		// "Name | Go, Redis" carries the stack in the title
		if name, ok := item["name"].(string); ok && strings.Contains(name, "|") {
			parts := strings.SplitN(name, "|", 2)
			item["name"] = strings.TrimSpace(parts[0])
			techs, _ := item["technologies"].([]any)
			item["technologies"] = append(techs, stringList(parts[1], true).([]any)...)
		}
	}
	return item
}

func primaryKey(section string) string {
	switch section {
	case types.SectionEducation:
		return "institution"
	case types.SectionAwards:
		return "title"
	default:
		return "name"
	}
}

// stringify turns scalars into strings; lists and objects pass through.
func stringify(v any) any {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return v
	}
}

// stringList coerces a string or mixed list into a list of strings.
func stringList(v any, split bool) any {
	switch t := v.(type) {
	case nil:
		return []any{}
	case string:
		if !split {
			if strings.TrimSpace(t) == "" {
				return []any{}
			}
			return []any{strings.TrimSpace(t)}
		}
		var out []any
		for _, part := range strings.Split(t, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		if out == nil {
			out = []any{}
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, item := range t {
			switch s := item.(type) {
			case string:
				out = append(out, s)
			case float64, bool:
				out = append(out, stringify(s))
			case map[string]any:
				if name, ok := s["name"].(string); ok {
					out = append(out, name)
				}
			}
		}
		return out
	default:
		return v
	}
}

func looksLikeSkillMap(m map[string]any) bool {
	if _, ok := m["name"]; ok {
		return false
	}
	if _, ok := m["keywords"]; ok {
		return false
	}
	for _, v := range m {
		switch v.(type) {
		case []any, string:
		default:
			return false
		}
	}
	return len(m) > 0
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// describe renders a short preview of a reply for retry prompts.
func describe(raw string, limit int) string {
	raw = strings.TrimSpace(raw)
	if len(raw) <= limit {
		return raw
	}
	return fmt.Sprintf("%s... (%d more bytes)", raw[:limit], len(raw)-limit)
}
