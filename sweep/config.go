package sweep

import "fmt"

// Config collects every tunable the sweep engine needs beyond the problem
// Dimensions, grounded on the Sweeper constructor's Insist() validation in
// the original C.
type Config struct {
	// NblockZ is the number of z-blocks the local NZ extent is divided
	// into for pipelining.
	NblockZ int
	// NoctantPerBlock is how many octants are scheduled concurrently per
	// octant-block; it doubles as the number of octant-in-block
	// goroutines sweepBlock spawns per semiblock.
	NoctantPerBlock int
	// Nsemiblock is how many disjoint spatial subregions a block is cut
	// into so concurrent octant-in-block goroutines never write the same
	// vo cell. Nsemiblock < NoctantPerBlock forces atomic vo updates.
	Nsemiblock int
	// NthreadE partitions the energy-group range across goroutines within
	// each active octant-in-block slot.
	NthreadE int
	// AsyncComm selects the double-buffered asynchronous face exchange
	// over the synchronous red/black protocol.
	AsyncComm bool
	// NProcX, NProcY are the process-grid extents.
	NProcX, NProcY int
}

// needsAtomicUpdate reports whether concurrent octant-in-block goroutines
// can contend on the same vo cell within one semiblock step.
func (c *Config) needsAtomicUpdate() bool {
	return c.Nsemiblock < c.NoctantPerBlock
}

// Validate checks Config against Dims, mirroring the original's Insist
// calls: failures are configuration errors, not panics, since they can
// depend on user input (flags, config files).
func (c *Config) Validate(dims Dimensions) error {
	if err := dims.Validate(); err != nil {
		return err
	}
	if c.NblockZ <= 0 {
		return fmt.Errorf("sweep: nblock_z must be positive, got %d", c.NblockZ)
	}
	if dims.NZ%c.NblockZ != 0 {
		return fmt.Errorf("sweep: nz=%d must be evenly divisible by nblock_z=%d", dims.NZ, c.NblockZ)
	}
	if !isPowerOfTwoUpTo(c.NoctantPerBlock, NOCTANT) {
		return fmt.Errorf("sweep: noctant_per_block must be a power of two in [1,%d], got %d", NOCTANT, c.NoctantPerBlock)
	}
	if !isPowerOfTwoUpTo(c.Nsemiblock, NOCTANT) {
		return fmt.Errorf("sweep: nsemiblock must be a power of two in [1,%d], got %d", NOCTANT, c.Nsemiblock)
	}
	blockNZ := dims.NZ / c.NblockZ
	if c.Nsemiblock > 4 && blockNZ%2 != 0 {
		return fmt.Errorf("sweep: z-semiblocking requires an even per-block nz, got %d", blockNZ)
	}
	if c.NthreadE <= 0 {
		return fmt.Errorf("sweep: nthread_e must be positive, got %d", c.NthreadE)
	}
	if dims.NE < c.NthreadE {
		return fmt.Errorf("sweep: ne=%d must be at least nthread_e=%d", dims.NE, c.NthreadE)
	}
	if c.NProcX <= 0 || c.NProcY <= 0 {
		return fmt.Errorf("sweep: process grid extents must be positive, got px=%d py=%d", c.NProcX, c.NProcY)
	}
	if c.Nsemiblock > 1 && dims.NX%2 != 0 && c.NoctantPerBlock > 1 {
		return fmt.Errorf("sweep: x-semiblocking requires an even nx, got %d", dims.NX)
	}
	if c.Nsemiblock > 2 && dims.NY%2 != 0 && c.NoctantPerBlock > 3 {
		return fmt.Errorf("sweep: y-semiblocking requires an even ny, got %d", dims.NY)
	}
	return nil
}
