package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	dto "github.com/lecture-insight-team/lecture-insight/internal/adapter/dto/analysis"
	"github.com/lecture-insight-team/lecture-insight/pkg/webhookauth"
)

// Sends a signed recording-ready webhook to a locally running instance.
// The endpoint rejects unsigned requests, so plain curl does not work.
//
//	go run ./scripts -video https://cdn.example.com/lecture.mp4
//	go run ./scripts -segments
func main() {
	base := flag.String("base", "http://localhost:8080", "server base URL")
	secret := flag.String("secret", "", "webhook secret (defaults to WEBHOOK_SECRET)")
	video := flag.String("video", "", "recording URL to submit")
	topic := flag.String("topic", "Local Test Lecture", "lecture topic")
	segments := flag.Bool("segments", false, "send canned transcript segments instead of a recording URL")
	flag.Parse()

	log.Println("🚀 Sending test recording webhook...")

	// Load .env if present so the script shares the server's secret
	_ = godotenv.Load()
	if *secret == "" {
		*secret = os.Getenv("WEBHOOK_SECRET")
	}
	if *secret == "" {
		log.Fatal("❌ No webhook secret: pass -secret or set WEBHOOK_SECRET")
	}
	if !*segments && *video == "" {
		log.Fatal("❌ Pass -video <recording url> or -segments")
	}

	req := dto.RecordingWebhookRequest{
		Topic:     *topic,
		MeetingID: fmt.Sprintf("local-%d", time.Now().Unix()),
		StartTime: time.Now().UTC().Format(time.RFC3339),
	}
	if *segments {
		req.Segments = []dto.SegmentRequest{
			{Start: 0, End: 40, Text: "welcome everyone, today we cover hash indexes", Speaker: "A"},
			{Start: 40, End: 80, Text: "first a quick recap of last week's b-trees", Speaker: "A"},
			{Start: 80, End: 120, Text: "does a hash index help with range scans?", Speaker: "B"},
		}
		log.Println("📝 Payload carries transcript segments; transcription will be skipped")
	} else {
		req.VideoURL = *video
	}

	body, err := json.Marshal(req)
	if err != nil {
		log.Fatalf("❌ Failed to marshal payload: %v", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, *base+"/v1/recordings", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("❌ Failed to build request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(webhookauth.SignatureHeader, webhookauth.Sign(*secret, body))

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		log.Fatalf("❌ Request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	log.Printf("📬 %s\n%s", resp.Status, respBody)

	var queued dto.RunQueuedResponse
	if err := json.Unmarshal(respBody, &queued); err == nil && queued.RunID != "" {
		log.Printf("✅ Run queued: %s", queued.RunID)
		log.Printf("🔗 Poll status:  curl %s%s", *base, queued.StatusURL)
		log.Printf("🔗 Fetch report: curl %s%s/report", *base, queued.StatusURL)
	}
}
