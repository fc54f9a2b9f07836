// Command rustbreak is a small demo around the persistence layer: it opens a
// map[string]string database, applies one get/set/del/list operation, and
// saves mutations back through the configured backend.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/TheNeikos/rustbreak"
	"github.com/TheNeikos/rustbreak/encoding"
)

// env vars for overriding defaults
const (
	backendVar  = "RUSTBREAK_BACKEND"
	pathVar     = "RUSTBREAK_PATH"
	encodingVar = "RUSTBREAK_ENCODING"
	capacityVar = "RUSTBREAK_MMAP_CAPACITY"
	logLevelVar = "RUSTBREAK_LOG_LEVEL"
)

// backend mode constants
const (
	memoryBackendMode = "memory"
	fileBackendMode   = "file"
	mmapBackendMode   = "mmap"
)

const (
	defaultPath     = "./rustbreak.db"
	defaultCapacity = 1 << 16
)

func main() {
	log := logrus.New()
	if lvl := os.Getenv(logLevelVar); lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			log.Fatalf("could not parse log level: %v", err)
		}
		log.SetLevel(level)
	}

	if len(os.Args) < 2 {
		usage()
	}

	db, err := openDatabase(log)
	if err != nil {
		log.Fatalf("could not open database: %v", err)
	}
	defer db.Close()

	if err := run(db, os.Args[1], os.Args[2:]); err != nil {
		log.Fatal(err)
	}
}

func run(db *rustbreak.Database[map[string]string], cmd string, args []string) error {
	switch cmd {
	case "get":
		if len(args) != 1 {
			usage()
		}

		var val string
		var ok bool
		err := db.Read(func(value *map[string]string) {
			val, ok = (*value)[args[0]]
		})
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("key not found: %s", args[0])
		}

		fmt.Println(val)
		return nil
	case "set":
		if len(args) != 2 {
			usage()
		}

		err := db.Write(func(value *map[string]string) {
			(*value)[args[0]] = args[1]
		})
		if err != nil {
			return err
		}

		return db.Save()
	case "del":
		if len(args) != 1 {
			usage()
		}

		err := db.Write(func(value *map[string]string) {
			delete(*value, args[0])
		})
		if err != nil {
			return err
		}

		return db.Save()
	case "list":
		return db.Read(func(value *map[string]string) {
			for k, v := range *value {
				fmt.Printf("%s=%s\n", k, v)
			}
		})
	default:
		usage()
		return nil
	}
}

// openDatabase uses the environment to pick the backend and encoding.
func openDatabase(log *logrus.Logger) (*rustbreak.Database[map[string]string], error) {
	encName := os.Getenv(encodingVar)
	if encName == "" {
		log.Debugf("defaulting encoding to %+q", encoding.NameBinary)
		encName = encoding.NameBinary
	}

	enc, err := encoding.ForName[map[string]string](encName)
	if err != nil {
		return nil, err
	}

	path := os.Getenv(pathVar)
	if path == "" {
		log.Debugf("defaulting path to %+q", defaultPath)
		path = defaultPath
	}

	def := map[string]string{}

	mode := os.Getenv(backendVar)
	if mode == "" {
		log.Debugf("defaulting backend mode to %+q", fileBackendMode)
		mode = fileBackendMode
	}

	switch mode {
	case memoryBackendMode:
		return rustbreak.OpenMemory(enc, def, rustbreak.Logger(log))
	case fileBackendMode:
		return rustbreak.OpenFile(path, enc, def, rustbreak.Logger(log))
	case mmapBackendMode:
		capacity := defaultCapacity
		if c := os.Getenv(capacityVar); c != "" {
			capacity, err = strconv.Atoi(c)
			if err != nil {
				return nil, err
			}
		}

		return rustbreak.OpenMmap(path, enc, def, capacity, rustbreak.Logger(log))
	default:
		return nil, fmt.Errorf("unrecognized backend mode %+q", mode)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: rustbreak <command> [args]

commands:
  get <key>          print the value stored under key
  set <key> <value>  store value under key and save
  del <key>          remove key and save
  list               print all key=value pairs

environment:
  %s   backend mode: memory, file or mmap (default file)
  %s      path of the backing file (default %s)
  %s  encoding: binary, json, yaml or gob (default binary)
  %s  mmap capacity in bytes
  %s  logrus level, e.g. debug
`, backendVar, pathVar, defaultPath, encodingVar, capacityVar, logLevelVar)
	os.Exit(2)
}
