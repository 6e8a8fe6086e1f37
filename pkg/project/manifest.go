package project

import (
	"bytes"
	"encoding/json"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/pgenie/pkg/consts"
)

// Manifest scripts registered by Initialize.
const (
	ScriptGenerate = "db:generate"
	ScriptMigrate  = "db:migrate"
	ScriptSeed     = "db:seed"
)

var modulePathRe = regexp.MustCompile(`--config=(.+?)/config\.ts`)

// member is a key and its undecoded value in a JSON object.
type member struct {
	key   string
	value json.RawMessage
}

// ManifestPath returns the absolute path of the project manifest.
func (p *Project) ManifestPath() string {
	return filepath.Join(p.root, p.manifest)
}

// RegisterScripts adds the db:generate, db:migrate and db:seed scripts for the
// module at modulePath to the manifest. Every other key, and the order of all
// keys, is preserved; existing db:* scripts are replaced in place.
func (p *Project) RegisterScripts(modulePath string, pm PackageManager) error {
	manifestPath := p.ManifestPath()

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return fsError("read", manifestPath, err)
	}

	root, err := decodeObject(data)
	if err != nil {
		return fsError("parse", manifestPath, err)
	}

	config := path.Join(modulePath, consts.DrizzleConfigFile)
	scripts := []member{
		{key: ScriptGenerate, value: jsonString("drizzle-kit generate --config=" + config)},
		{key: ScriptMigrate, value: jsonString("drizzle-kit migrate --config=" + config)},
		{key: ScriptSeed, value: jsonString(pm.SeedCommand(path.Join(modulePath, consts.SeedFile)))},
	}

	var existing []member
	if raw, ok := lookup(root, "scripts"); ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		if existing, err = decodeObject(raw); err != nil {
			return fsError("parse", manifestPath, errors.Wrap(err, "scripts"))
		}
	}

	for _, s := range scripts {
		existing = upsert(existing, s)
	}

	root = upsert(root, member{key: "scripts", value: encodeObject(existing)})

	if err := writeFileAtomic(manifestPath, append(encodeObject(root), '\n')); err != nil {
		return err
	}

	return nil
}

// ModulePath returns the database module directory recorded in the
// manifest's db:generate script.
func (p *Project) ModulePath() (string, error) {
	manifestPath := p.ManifestPath()

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return "", fsError("read", manifestPath, err)
	}

	var manifest struct {
		Scripts map[string]string `json:"scripts"`
	}

	if err := json.Unmarshal(data, &manifest); err != nil {
		return "", fsError("parse", manifestPath, err)
	}

	m := modulePathRe.FindStringSubmatch(manifest.Scripts[ScriptGenerate])
	if m == nil {
		return "", fsError("read module path from", manifestPath,
			errors.Errorf("no %s script; run pgenie init first", ScriptGenerate))
	}

	return path.Clean(m[1]), nil
}

// decodeObject splits a JSON object into its members without decoding the
// values, keeping their original order.
func decodeObject(data []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(err, "invalid JSON")
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("expected a JSON object")
	}

	members := []member{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(err, "invalid JSON")
		}

		key, ok := tok.(string)
		if !ok {
			return nil, errors.Errorf("unexpected token %v", tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, errors.Wrapf(err, "invalid value for %q", key)
		}

		members = append(members, member{key: key, value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, errors.Wrap(err, "invalid JSON")
	}

	return members, nil
}

// encodeObject renders members as a JSON object indented by two spaces.
// Nested values are re-indented to match.
func encodeObject(members []member) []byte {
	if len(members) == 0 {
		return []byte("{}")
	}

	var b bytes.Buffer
	b.WriteString("{\n")

	for i, m := range members {
		b.WriteString("  ")
		b.Write(jsonString(m.key))
		b.WriteString(": ")

		if err := json.Indent(&b, m.value, "  ", "  "); err != nil {
			b.Write(m.value)
		}

		if i < len(members)-1 {
			b.WriteByte(',')
		}

		b.WriteByte('\n')
	}

	b.WriteByte('}')
	return b.Bytes()
}

func lookup(members []member, key string) (json.RawMessage, bool) {
	for _, m := range members {
		if m.key == key {
			return m.value, true
		}
	}

	return nil, false
}

func upsert(members []member, m member) []member {
	for i := range members {
		if members[i].key == m.key {
			members[i].value = m.value
			return members
		}
	}

	return append(members, m)
}

// jsonString encodes s without escaping HTML characters, which are common in
// shell scripts (&&, >).
func jsonString(s string) json.RawMessage {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)

	return json.RawMessage(strings.TrimSuffix(b.String(), "\n"))
}
