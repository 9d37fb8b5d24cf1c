//go:build windows

package pathguard

// pathsCaseInsensitive is true on filesystems where comparisons must ignore
// case (NTFS/FAT), matching the design note in spec §9 about base-directory
// case sensitivity.
const pathsCaseInsensitive = true
