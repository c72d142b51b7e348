// Command diskbuf is an interactive shell over one buffer pool manager
// and one disk-backed file, exercising every operation of the manager's
// public surface: read, alloc, unpin, flush, dispose, and print.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/kianmercer/diskbuf/internal/config"
	"github.com/kianmercer/diskbuf/internal/dbtypes"
	"github.com/kianmercer/diskbuf/internal/logging"
	"github.com/kianmercer/diskbuf/internal/storage/buffer"
	"github.com/kianmercer/diskbuf/internal/storage/file"
)

func main() {
	cfg := config.Default()
	if len(os.Args) > 1 {
		loaded, err := config.Load(os.Args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, "diskbuf:", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	logging.SetLevel(cfg.LogLevel)

	f, err := file.Open(filepath.Join(cfg.DataDir, "diskbuf.db"), 0)
	if err != nil {
		fmt.Fprintln(os.Stderr, "diskbuf:", err)
		os.Exit(1)
	}
	defer f.Close()

	mgr := buffer.NewManager(cfg.NumFrames)

	rl, err := readline.New("diskbuf> ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "diskbuf:", err)
		os.Exit(1)
	}
	defer rl.Close()

	runShell(rl, mgr, f)
}

func runShell(rl *readline.Instance, mgr *buffer.Manager, f file.File) {
	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "diskbuf:", err)
			return
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "read":
			runRead(mgr, f, fields)
		case "alloc":
			runAlloc(mgr, f)
		case "unpin":
			runUnpin(mgr, f, fields)
		case "flush":
			if err := mgr.FlushFile(f); err != nil {
				fmt.Println("error:", err)
			} else {
				fmt.Println("ok")
			}
		case "dispose":
			runDispose(mgr, f, fields)
		case "print":
			mgr.PrintSelf()
		case "quit", "exit":
			return
		default:
			fmt.Println("commands: read <page>, alloc, unpin <page> [dirty], flush, dispose <page>, print, quit")
		}
	}
}

func runRead(mgr *buffer.Manager, f file.File, fields []string) {
	pageNo, err := parsePageArg(fields)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if _, err := mgr.ReadPage(f, pageNo); err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("pinned page %d\n", pageNo)
}

func runAlloc(mgr *buffer.Manager, f file.File) {
	pageNo, _, err := mgr.AllocPage(f)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Printf("allocated and pinned page %d\n", pageNo)
}

func runUnpin(mgr *buffer.Manager, f file.File, fields []string) {
	pageNo, err := parsePageArg(fields)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	dirty := len(fields) > 2 && fields[2] == "dirty"
	if err := mgr.UnpinPage(f, pageNo, dirty); err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("ok")
}

func runDispose(mgr *buffer.Manager, f file.File, fields []string) {
	pageNo, err := parsePageArg(fields)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if err := mgr.DisposePage(f, pageNo); err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("ok")
}

func parsePageArg(fields []string) (dbtypes.PageID, error) {
	if len(fields) < 2 {
		return 0, fmt.Errorf("usage: %s <page>", fields[0])
	}
	n, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid page number %q", fields[1])
	}
	return dbtypes.PageID(n), nil
}
