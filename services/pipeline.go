package services

import (
	"log"
	"os"
	"slipflow/database"
	"slipflow/providers/ocr"
	"slipflow/realtime"
	"sync"
)

// Pipeline bundles the wired engine the controllers and jobs share.
type Pipeline struct {
	Sessions  *SessionManager
	Directory *BankDirectory
	Receiver  *ReceiverMatcher
	Sender    *SenderMatcher
	Resolver  *DestinationResolver
	Credit    *CreditEngine
	Ingestor  *Ingestor
}

var (
	pipelineOnce sync.Once
	pipeline     *Pipeline
)

// Default builds the pipeline once, on top of the shared DB handle and the
// OCR provider selected by OCR_PROVIDER (slipok when unset).
func Default() *Pipeline {
	pipelineOnce.Do(func() {
		sessions := NewSessionManager(database.DB)
		directory := NewBankDirectory(database.DB, sessions)
		store := NewStore(database.DB)
		resolver := &DestinationResolver{Sessions: sessions, Dir: directory}
		credit := &CreditEngine{Store: store, Sessions: sessions, Resolver: resolver}

		providerName := os.Getenv("OCR_PROVIDER")
		if providerName == "" {
			providerName = "slipok"
		}
		decoder := ocr.Get(providerName)
		if decoder == nil {
			log.Fatalf("❌ unknown OCR provider: %s", providerName)
		}

		pipeline = &Pipeline{
			Sessions:  sessions,
			Directory: directory,
			Receiver:  &ReceiverMatcher{Dir: directory},
			Sender:    &SenderMatcher{Sessions: sessions},
			Resolver:  resolver,
			Credit:    credit,
		}
		pipeline.Ingestor = &Ingestor{
			Store:    store,
			Decoder:  decoder,
			Receiver: pipeline.Receiver,
			Sender:   pipeline.Sender,
			Credit:   credit,
			Hub:      realtime.Default,
		}
	})
	return pipeline
}
