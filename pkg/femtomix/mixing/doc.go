// Package mixing provides the event binning and the per-bin pools of
// accepted particle collections used to form mixed pairs.
//
// Events are binned on (vertex z, multiplicity or centrality). Each bin owns
// a Pool: a FIFO of at most Depth collections from earlier events in that
// bin. A pool is Ready once the summed size of its collections reaches the
// configured minimum.
package mixing
