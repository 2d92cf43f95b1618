package driver

import crand "crypto/rand"

// cryptoRandRead fills buf from the platform's entropy source. Isolated
// behind a var so tests can stub it without touching crypto/rand directly.
var cryptoRandRead = crand.Read
