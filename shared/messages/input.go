package messages

// OperatorInput is sent from client to server with the participant's current
// movement intent on the ground plane. Discrete actions (attach, detach,
// pickup) travel as their own messages; this carries only the held state.
type OperatorInput struct {
	Sequence  uint32  // Incrementing ID, echoed back for reconciliation
	DirX      float64 // -1..1 movement intent on the world X axis
	DirZ      float64 // -1..1 movement intent on the world Z axis
	Timestamp int64   // Client timestamp (Unix ms)
}
