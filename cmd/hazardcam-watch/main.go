// hazardcam-watch - terminal client for the hazardcam frame feed.
//
// Connects to the dashboard websocket, reports frame rate and size,
// and can dump received frames to disk for inspection.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func main() {
	addr := flag.String("addr", "localhost:8090", "hazardcam host:port")
	dumpDir := flag.String("dump", "", "Directory to save received frames (optional)")
	flag.Parse()

	feedURL := fmt.Sprintf("ws://%s/ws/feed", *addr)
	fmt.Printf("Connecting to %s\n", feedURL)

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.Dial(feedURL, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect failed: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	if *dumpDir != "" {
		if err := os.MkdirAll(*dumpDir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "create dump dir: %v\n", err)
			os.Exit(1)
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		conn.Close()
	}()

	var frames, bytes int
	lastReport := time.Now()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			fmt.Println("feed closed")
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}

		frames++
		bytes += len(data)

		if *dumpDir != "" {
			name := filepath.Join(*dumpDir, uuid.NewString()+".jpg")
			if err := os.WriteFile(name, data, 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "write frame: %v\n", err)
			}
		}

		if elapsed := time.Since(lastReport); elapsed >= time.Second {
			fps := float64(frames) / elapsed.Seconds()
			kb := float64(bytes) / 1024 / float64(frames)
			fmt.Printf("%.1f fps, %.0f KB/frame\n", fps, kb)
			frames, bytes = 0, 0
			lastReport = time.Now()
		}
	}
}
