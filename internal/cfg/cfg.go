package cfg

const (
	// Version of the scriptcast tool.
	Version = "0.2.0"

	// Engine
	CaptureBufferSize = 4096 // size of one read of process output
	CaptureQueueSize  = 64   // buffered chunks between capture and engine

	// Server
	ServerReadBufferSize  = 1024 // websocket read buffer size
	ServerWriteBufferSize = 1024 // websocket write buffer size
	ServerListDefault     = 50   // default page size for the list endpoint
	ServerStreamMaxIdle   = 2    // cap between streamed events. Unit in seconds
)
