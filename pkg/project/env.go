package project

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pseudomuto/pgenie/pkg/consts"
)

// AppendEnv appends KEY="value" to the project's .env file, creating it when
// missing. Existing entries are left alone; a later duplicate wins when the
// file is loaded.
func (p *Project) AppendEnv(key, value string) error {
	envPath := filepath.Join(p.root, consts.EnvFile)

	line, err := godotenv.Marshal(map[string]string{key: value})
	if err != nil {
		return fsError("encode", envPath, err)
	}

	existing, err := os.ReadFile(envPath)
	if err != nil && !os.IsNotExist(err) {
		return fsError("read", envPath, err)
	}

	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		line = "\n" + line
	}

	f, err := os.OpenFile(envPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, consts.ModeFile)
	if err != nil {
		return fsError("open", envPath, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return fsError("write", envPath, err)
	}

	return nil
}
