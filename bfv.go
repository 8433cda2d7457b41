/*
Package bfv provides the key generation layer of a single-modulus Ring-LWE encryption scheme.
Keys live in the negacyclic ring Z_Q[X]/(X^N+1) implemented by the ring package. The rlwe package
generates secret keys, public keys and three kinds of relinearization keys: digit decomposition,
simple and modulus raising.
*/
package bfv
